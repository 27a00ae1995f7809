package slider

import (
	"encoding/json"
	"fmt"
	"io"
)

// Node is one tagged element of a pandoc JSON document: a type tag and
// an opaque payload whose shape depends on the tag. Payload lists are
// []any and may contain nested Nodes; see normalize.
type Node struct {
	Tag     string
	Content any
}

// MarshalJSON emits the pandoc wire form {"t": tag, "c": content},
// omitting "c" for contentless tags such as Space.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Content == nil {
		return json.Marshal(struct {
			T string `json:"t"`
		}{n.Tag})
	}
	return json.Marshal(struct {
		T string `json:"t"`
		C any    `json:"c"`
	}{n.Tag, n.Content})
}

// Meta holds the document metadata from the front matter. Values are
// normalized MetaValue nodes (MetaInlines, MetaString, ...).
type Meta map[string]any

// Document is a pandoc JSON document as passed between pandoc and its
// filters.
type Document struct {
	APIVersion json.RawMessage
	Meta       Meta
	Blocks     []any
}

type wireDocument struct {
	APIVersion json.RawMessage `json:"pandoc-api-version"`
	Meta       map[string]any  `json:"meta"`
	Blocks     []any           `json:"blocks"`
}

// ReadDocument decodes a pandoc JSON document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var wire wireDocument
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	meta := make(Meta, len(wire.Meta))
	for key, value := range wire.Meta {
		meta[key] = normalize(value)
	}
	blocks, _ := normalize(wire.Blocks).([]any)
	return &Document{APIVersion: wire.APIVersion, Meta: meta, Blocks: blocks}, nil
}

// WriteDocument encodes the document back to the pandoc wire format.
func (d *Document) WriteDocument(w io.Writer) error {
	wire := wireDocument{APIVersion: d.APIVersion, Meta: d.Meta, Blocks: d.Blocks}
	if wire.Meta == nil {
		wire.Meta = map[string]any{}
	}
	if wire.Blocks == nil {
		wire.Blocks = []any{}
	}
	if err := json.NewEncoder(w).Encode(&wire); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// normalize rewrites decoded JSON so that every {"t": ..., "c": ...}
// object becomes a Node. Other maps (for example citation records) are
// left as maps with normalized values.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if tag, ok := x["t"].(string); ok && len(x) <= 2 {
			if content, ok := x["c"]; ok {
				return Node{Tag: tag, Content: normalize(content)}
			}
			return Node{Tag: tag}
		}
		m := make(map[string]any, len(x))
		for key, value := range x {
			m[key] = normalize(value)
		}
		return m
	case []any:
		list := make([]any, len(x))
		for i, item := range x {
			list[i] = normalize(item)
		}
		return list
	default:
		return v
	}
}

// Attr is a pandoc attribute triple: identifier, class list, and
// key-value pairs. On the wire it is [ident, [classes], [[k, v], ...]].
type Attr struct {
	Ident   string
	Classes []string
	KeyVals [][2]string
}

// HasClass reports whether the class list contains name.
func (a Attr) HasClass(name string) bool {
	for _, class := range a.Classes {
		if class == name {
			return true
		}
	}
	return false
}

func (a Attr) ast() any {
	classes := make([]any, len(a.Classes))
	for i, class := range a.Classes {
		classes[i] = class
	}
	keyvals := make([]any, len(a.KeyVals))
	for i, kv := range a.KeyVals {
		keyvals[i] = []any{kv[0], kv[1]}
	}
	return []any{a.Ident, classes, keyvals}
}

// parseAttr reconstructs an Attr from its normalized wire form. ok is
// false when the payload has an unexpected shape.
func parseAttr(v any) (Attr, bool) {
	triple, ok := v.([]any)
	if !ok || len(triple) != 3 {
		return Attr{}, false
	}
	var attr Attr
	if attr.Ident, ok = triple[0].(string); !ok {
		return Attr{}, false
	}
	classes, ok := triple[1].([]any)
	if !ok {
		return Attr{}, false
	}
	for _, c := range classes {
		class, ok := c.(string)
		if !ok {
			return Attr{}, false
		}
		attr.Classes = append(attr.Classes, class)
	}
	keyvals, ok := triple[2].([]any)
	if !ok {
		return Attr{}, false
	}
	for _, item := range keyvals {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return Attr{}, false
		}
		key, kok := pair[0].(string)
		value, vok := pair[1].(string)
		if !kok || !vok {
			return Attr{}, false
		}
		attr.KeyVals = append(attr.KeyVals, [2]string{key, value})
	}
	return attr, true
}

// extractCaption strips a "caption" key-value from the pairs, returning
// the caption inlines, the "fig:" title marker, and the remaining
// pairs.
func extractCaption(keyvals [][2]string) (caption []any, typef string, rest [][2]string) {
	for _, kv := range keyvals {
		if kv[0] == "caption" {
			caption = []any{Str(kv[1])}
			typef = "fig:"
			continue
		}
		rest = append(rest, kv)
	}
	return caption, typef, rest
}

// Constructors for the node shapes produced by the filters.

// Str builds a text node.
func Str(text string) Node { return Node{Tag: "Str", Content: text} }

// Strong wraps inlines in bold emphasis.
func Strong(inlines ...Node) Node { return Node{Tag: "Strong", Content: toList(inlines)} }

// Plain builds a plain (non-paragraph) inline container block.
func Plain(inlines ...Node) Node { return Node{Tag: "Plain", Content: toList(inlines)} }

// Para builds a paragraph block.
func Para(inlines ...Node) Node { return Node{Tag: "Para", Content: toList(inlines)} }

// ImageNode builds an image with the given caption inlines and
// (target, title) pair.
func ImageNode(attr Attr, caption []any, target, title string) Node {
	if caption == nil {
		caption = []any{}
	}
	return Node{Tag: "Image", Content: []any{attr.ast(), caption, []any{target, title}}}
}

// CodeBlockNode builds a fenced code block.
func CodeBlockNode(attr Attr, text string) Node {
	return Node{Tag: "CodeBlock", Content: []any{attr.ast(), text}}
}

func toList(nodes []Node) []any {
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = n
	}
	return list
}

// stringifyInline flattens one inline node to plain text. Unknown tags
// degrade to their formatted value rather than failing.
func stringifyInline(n Node) string {
	switch n.Tag {
	case "Str":
		if s, ok := n.Content.(string); ok {
			return s
		}
	case "Space", "SoftBreak":
		return " "
	}
	if n.Content == nil {
		return ""
	}
	return fmt.Sprint(n.Content)
}

// stringifyInlines flattens a normalized inline list to plain text.
func stringifyInlines(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	var out []byte
	for _, item := range list {
		if n, ok := item.(Node); ok {
			out = append(out, stringifyInline(n)...)
		}
	}
	return string(out)
}

package slider

import (
	"io"
)

// Filter transforms individual document nodes for a given output
// format. A nil replacement leaves the node unchanged; a Node replaces
// it; a []any is spliced into the enclosing list. A returned error is
// converted by the walk driver into a visible inline annotation instead
// of aborting the document conversion.
type Filter interface {
	Transform(n Node, target string, meta Meta) (any, error)
}

// Walk applies the filter depth-first to every Node in v and returns
// the transformed value. Filters see nodes in document order; the
// replacement subtree of a filter is walked as well.
func Walk(v any, target string, meta Meta, f Filter) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			n, isNode := item.(Node)
			if !isNode {
				out = append(out, Walk(item, target, meta, f))
				continue
			}
			replacement, err := f.Transform(n, target, meta)
			if err != nil {
				out = append(out, filterErrorNode(err))
				continue
			}
			switch r := replacement.(type) {
			case nil:
				out = append(out, Walk(n, target, meta, f))
			case []any:
				for _, spliced := range r {
					out = append(out, Walk(spliced, target, meta, f))
				}
			default:
				out = append(out, Walk(replacement, target, meta, f))
			}
		}
		return out
	case Node:
		if x.Content == nil {
			return x
		}
		return Node{Tag: x.Tag, Content: Walk(x.Content, target, meta, f)}
	case map[string]any:
		out := make(map[string]any, len(x))
		for key, value := range x {
			out[key] = Walk(value, target, meta, f)
		}
		return out
	default:
		return v
	}
}

// filterErrorNode renders a handler failure as a bold in-place
// annotation.
func filterErrorNode(err error) Node {
	return Plain(Strong(Str("Filter error: " + err.Error())))
}

// ApplyFilters runs each filter over the whole document in order: one
// complete walk per filter, covering metadata and blocks. Stateful
// filters therefore see the entire document in a single pass.
func ApplyFilters(doc *Document, target string, filters ...Filter) {
	for _, f := range filters {
		if meta, ok := Walk(map[string]any(doc.Meta), target, doc.Meta, f).(map[string]any); ok {
			doc.Meta = meta
		}
		if blocks, ok := Walk(doc.Blocks, target, doc.Meta, f).([]any); ok {
			doc.Blocks = blocks
		}
	}
}

// RunFilters implements the pandoc JSON filter protocol: it reads a
// document from r, applies the filters for the given output format, and
// writes the result to w.
func RunFilters(r io.Reader, w io.Writer, target string, filters ...Filter) error {
	doc, err := ReadDocument(r)
	if err != nil {
		return err
	}
	ApplyFilters(doc, target, filters...)
	return doc.WriteDocument(w)
}

package slider

import (
	"regexp"
	"strings"
)

// Metadata variable references: %{name} in plain text, and the
// percent-encoded form %%7Bname%7D inside link targets.
var (
	metaVarText = regexp.MustCompile(`%\{(.*?)\}`)
	metaVarLink = regexp.MustCompile(`%%7B(.*?)%7D`)
)

// MetaVarFilter substitutes metadata variable references with values
// from the document front matter. References whose name has no
// metadata value are left unexpanded.
type MetaVarFilter struct{}

func (MetaVarFilter) Transform(n Node, target string, meta Meta) (any, error) {
	switch strings.ToLower(n.Tag) {
	case "str":
		text, ok := n.Content.(string)
		if !ok {
			return nil, nil
		}
		if replaced, changed := replaceMetaVars(text, meta, metaVarText); changed {
			return Str(replaced), nil
		}
	case "link":
		return transformLink(n, meta)
	}
	return nil, nil
}

// transformLink substitutes variables in a link's text inlines and in
// its (target, title) strings, where references arrive percent-encoded.
func transformLink(n Node, meta Meta) (any, error) {
	payload, ok := n.Content.([]any)
	if !ok || len(payload) != 3 {
		return nil, nil
	}
	inlines, ok := payload[1].([]any)
	if !ok {
		return nil, nil
	}
	pair, ok := payload[2].([]any)
	if !ok {
		return nil, nil
	}

	changed := false
	newInlines := make([]any, len(inlines))
	for i, item := range inlines {
		newInlines[i] = item
		if inline, ok := item.(Node); ok && inline.Tag == "Str" {
			if text, ok := inline.Content.(string); ok {
				if replaced, ok := replaceMetaVars(text, meta, metaVarText); ok {
					newInlines[i] = Str(replaced)
					changed = true
				}
			}
		}
	}
	newPair := make([]any, len(pair))
	for i, item := range pair {
		newPair[i] = item
		if text, ok := item.(string); ok {
			if replaced, ok := replaceMetaVars(text, meta, metaVarLink); ok {
				newPair[i] = replaced
				changed = true
			}
		}
	}
	if !changed {
		return nil, nil
	}
	return Node{Tag: n.Tag, Content: []any{payload[0], newInlines, newPair}}, nil
}

// replaceMetaVars substitutes all variable references matched by the
// pattern. Substitution runs back-to-front so that earlier offsets stay
// valid after length-changing replacements. changed is false when no
// reference resolved to a metadata value; unmatched names stay
// unexpanded.
func replaceMetaVars(s string, meta Meta, pattern *regexp.Regexp) (result string, changed bool) {
	matches := pattern.FindAllStringSubmatchIndex(s, -1)
	out := []byte(s)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		value, ok := lookupMetaVar(meta, s[m[2]:m[3]])
		if !ok {
			continue
		}
		out = append(out[:m[0]], append([]byte(value), out[m[1]:]...)...)
		changed = true
	}
	if !changed {
		return "", false
	}
	return string(out), true
}

// lookupMetaVar resolves a variable from the metadata, flattening
// MetaInlines values to plain text.
func lookupMetaVar(meta Meta, name string) (string, bool) {
	value, ok := meta[name].(Node)
	if !ok {
		return "", false
	}
	switch value.Tag {
	case "MetaInlines":
		return stringifyInlines(value.Content), true
	case "MetaString":
		if s, ok := value.Content.(string); ok {
			return s, true
		}
	}
	return "", false
}

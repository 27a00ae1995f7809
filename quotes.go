package slider

import (
	"fmt"
	"os"
	"strings"
)

// quoteMarker is the two-character sequence toggled into directional
// quotation marks.
const quoteMarker = "´´"

// GermanQuotesFilter replaces the ´´ marker with German directional
// quotation marks. The opening/closing toggle state spans the whole
// document, so pairing is global rather than per text node.
type GermanQuotesFilter struct {
	opening bool
}

// NewGermanQuotesFilter creates the filter with the next quote opening.
func NewGermanQuotesFilter() *GermanQuotesFilter {
	return &GermanQuotesFilter{opening: true}
}

func (f *GermanQuotesFilter) Transform(n Node, target string, _ Meta) (any, error) {
	if strings.ToLower(n.Tag) != "str" {
		return nil, nil
	}
	text, ok := n.Content.(string)
	if !ok {
		return nil, nil
	}
	if replaced, changed := f.replaceQuotes(text, target); changed {
		return Str(replaced), nil
	}
	return nil, nil
}

// replaceQuotes substitutes every marker in the string left to right,
// flipping the toggle per occurrence. changed is false when the string
// contains no marker.
func (f *GermanQuotesFilter) replaceQuotes(s, target string) (string, bool) {
	if !strings.Contains(s, quoteMarker) {
		return "", false
	}
	var out strings.Builder
	rest := s
	for {
		pos := strings.Index(rest, quoteMarker)
		if pos < 0 {
			out.WriteString(rest)
			return out.String(), true
		}
		out.WriteString(rest[:pos])
		out.WriteString(f.quoteMark(target))
		rest = rest[pos+len(quoteMarker):]
		f.opening = !f.opening
	}
}

// quoteMark returns the directional mark for the current toggle state.
// An empty output format strips the marker; an unrecognized one is
// reported to stderr and strips it as well.
func (f *GermanQuotesFilter) quoteMark(target string) string {
	switch {
	case isHTMLFormat(target), target == "latex":
		if f.opening {
			return "„"
		}
		return "“"
	case target == "":
		return ""
	default:
		fmt.Fprintln(os.Stderr, target)
		return ""
	}
}

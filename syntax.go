package slider

import (
	"fmt"
	"regexp"
)

// Directive syntax selectors for [ParserFor].
const (
	SyntaxHash = "hash" // #command arg
	SyntaxHTML = "html" // <!--command arg-->
)

// Directive lines consist of a command name and an optional single
// argument. The command pattern also matches "#" so that comment lines
// ("## ignored") dispatch like any other directive.
const (
	commandPattern  = `[a-z#]+`
	argumentPattern = `\S+`
)

// LineParser splits a physical line into a directive command and its
// optional argument. ok is false for literal content lines.
type LineParser func(line string) (command, argument string, ok bool)

var lineParsers = map[string]LineParser{
	SyntaxHash: newLineParser(`^\s*#(%s)(?:\s+(%s))?$`),
	SyntaxHTML: newLineParser(`^\s*<!--\s*(%s)(?:\s+(%s))?\s*-->\s*$`),
}

// newLineParser builds a parser from a regexp template with slots for the
// command and argument patterns.
func newLineParser(template string) LineParser {
	re := regexp.MustCompile(fmt.Sprintf(template, commandPattern, argumentPattern))
	return func(line string) (string, string, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return "", "", false
		}
		return m[1], m[2], true
	}
}

// ParserFor returns the line parser for the given syntax selector,
// either [SyntaxHash] or [SyntaxHTML].
func ParserFor(syntax string) (LineParser, error) {
	parse, ok := lineParsers[syntax]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyntax, syntax)
	}
	return parse, nil
}

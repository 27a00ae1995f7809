package slider

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// StdinName is the display name of the standard input source. Standard
// input has no containing directory, so includes are resolved against
// the configured search directories only.
const StdinName = "<stdin>"

// Input is one top-level input to a preprocessing run.
type Input struct {
	Name string // display name; StdinName marks standard input
	R    io.Reader
}

// source is one open input on the preprocessor's stack. The stack grows
// on include directives and shrinks when a source is exhausted.
type source struct {
	br   *bufio.Reader
	c    io.Closer // nil when there is nothing to close (stdin)
	name string
	abs  string // resolved absolute path, used for cycle detection
	dir  string // containing directory; empty for stdin
	line int
	eof  bool
}

func newSource(r io.Reader, name string) *source {
	s := &source{br: bufio.NewReader(r), name: name}
	if c, ok := r.(io.Closer); ok {
		s.c = c
	}
	if name != StdinName {
		s.dir = filepath.Dir(name)
		if abs, err := filepath.Abs(name); err == nil {
			s.abs = abs
		} else {
			s.abs = name
		}
	}
	return s
}

// readLine returns the next line without its line ending. When the
// underlying reader is exhausted it yields exactly one synthetic blank
// line before reporting ok=false. The blank line papers over markdown
// problems when include directives appear on consecutive lines.
func (s *source) readLine() (string, bool) {
	if s.eof {
		return "", false
	}
	line, err := s.br.ReadString('\n')
	if err != nil {
		if line == "" {
			s.eof = true
			return "", true // synthetic blank line
		}
		// Final line without a terminator.
		s.line++
		return strings.TrimRight(line, "\r\n"), true
	}
	s.line++
	return strings.TrimRight(line, "\r\n"), true
}

func (s *source) close() {
	if s.c != nil {
		_ = s.c.Close()
	}
}

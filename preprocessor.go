package slider

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SymbolSlides is defined when output is rendered as a slide deck. The
// page and pause directives emit slide markers only when it is set.
const SymbolSlides = "slides"

// Config is the immutable configuration bundle for one preprocessing
// run.
type Config struct {
	// Root is the absolute root directory. Image references must
	// resolve to files below it.
	Root string
	// Base is the root-relative base directory used to compute
	// parent-directory prefixes for generated image links. Empty means
	// image links are emitted as absolute paths from the site root.
	Base string
	// Includes holds the include search directories, in search order.
	Includes []string
	// Symbols is the set of defined symbols, lower-cased.
	Symbols map[string]bool
}

// Symbols builds a symbol set from names, lower-casing each one.
func Symbols(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}

// HasSymbol reports whether the symbol is defined. Lookup is
// case-insensitive.
func (c Config) HasSymbol(symbol string) bool {
	return c.Symbols[strings.ToLower(symbol)]
}

// NormalizeDir resolves a directory name the way the preprocessor CLI
// does: a missing or non-directory name falls back to the current
// working directory, the result is made absolute, and when root is
// non-empty the result is forced back to root if it escapes it.
func NormalizeDir(root, name string) string {
	if info, err := os.Stat(name); name == "" || err != nil || !info.IsDir() {
		name, _ = os.Getwd()
	}
	result, err := filepath.Abs(name)
	if err != nil {
		result = name
	}
	if root != "" && !strings.HasPrefix(result, root) {
		result = root
	}
	return result
}

// IncludeDirs resolves include search directories to absolute paths,
// silently dropping names that are not existing directories.
func IncludeDirs(names []string) []string {
	var result []string
	for _, name := range names {
		info, err := os.Stat(name)
		if err != nil || !info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(name); err == nil {
			result = append(result, abs)
		}
	}
	return result
}

// Preprocessor reads a sequence of input sources and expands directives
// into an output line stream. It is a streaming transform: lines are
// written to the output sink as they are produced.
type Preprocessor struct {
	cfg   Config
	out   io.Writer
	parse LineParser

	queue []Input   // pending top-level inputs
	stack []*source // open sources, innermost last

	emitting bool
	ifStack  []bool // saved emission flags of enclosing conditionals

	relDir string // "../.." style prefix derived from cfg.Base
	werr   error  // first write error
}

// NewPreprocessor creates a preprocessor writing to out. The parser
// selects the directive syntax, see [ParserFor].
func NewPreprocessor(cfg Config, out io.Writer, parse LineParser) *Preprocessor {
	return &Preprocessor{
		cfg:      cfg,
		out:      out,
		parse:    parse,
		emitting: true,
		relDir:   relDirPrefix(cfg.Base),
	}
}

// relDirPrefix computes the parent-directory prefix for image links
// from the path-segment depth of the base directory.
func relDirPrefix(base string) string {
	base = strings.TrimSuffix(path.Clean(base), "/")
	if base == "" || base == "." {
		return ""
	}
	steps := strings.Count(base, "/")
	parts := make([]string, steps)
	for i := range parts {
		parts[i] = ".."
	}
	return path.Join(parts...)
}

// Run processes all inputs in order. It returns the first write error,
// if any. A canceled context stops processing cleanly without error,
// mirroring an interrupted run.
func (p *Preprocessor) Run(ctx context.Context, inputs []Input) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	p.queue = inputs
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, ok := p.readLine()
		if !ok {
			return p.werr
		}
		p.handleLine(line)
		if p.werr != nil {
			return p.werr
		}
	}
}

// readLine returns the next input line, switching to the previous
// source on exhaustion and to the next queued input when the stack
// runs empty.
func (p *Preprocessor) readLine() (string, bool) {
	for {
		if len(p.stack) == 0 {
			if len(p.queue) == 0 {
				return "", false
			}
			next := p.queue[0]
			p.queue = p.queue[1:]
			p.stack = append(p.stack, newSource(next.R, next.Name))
		}
		current := p.stack[len(p.stack)-1]
		line, ok := current.readLine()
		if ok {
			return line, true
		}
		current.close()
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// handleLine dispatches one physical line. Directive lines are consumed
// by their handler; everything else is literal content.
func (p *Preprocessor) handleLine(line string) {
	if command, argument, ok := p.parse(line); ok {
		if d, known := directives[command]; known {
			if p.emitting || d.always {
				d.handle(p, argument)
			}
			return
		}
	}
	p.emit(line)
}

// directive binds a command name to its handler. Handlers marked always
// run even while an enclosing false conditional suppresses emission, so
// that nested conditional blocks stay balanced.
type directive struct {
	handle func(p *Preprocessor, argument string)
	always bool
}

var directives = map[string]directive{
	"#":       {(*Preprocessor).handleComment, false},
	"ifdef":   {(*Preprocessor).handleIfdef, true},
	"ifndef":  {(*Preprocessor).handleIfndef, true},
	"elifdef": {(*Preprocessor).handleElifdef, true},
	"else":    {(*Preprocessor).handleElse, true},
	"endif":   {(*Preprocessor).handleEndif, true},
	"page":    {(*Preprocessor).handlePage, false},
	"pause":   {(*Preprocessor).handlePause, false},
	"include": {(*Preprocessor).handleInclude, false},
	"image":   {(*Preprocessor).handleImage, false},
}

func (p *Preprocessor) emit(line string) {
	if !p.emitting {
		return
	}
	if _, err := fmt.Fprintln(p.out, line); err != nil && p.werr == nil {
		p.werr = fmt.Errorf("writing output: %w", err)
	}
}

// handleComment drops the whole line.
func (p *Preprocessor) handleComment(string) {}

func (p *Preprocessor) handlePage(string) {
	p.emit("")
	if p.cfg.HasSymbol(SymbolSlides) {
		p.emit("----")
		p.emit("")
	}
}

func (p *Preprocessor) handlePause(string) {
	if p.cfg.HasSymbol(SymbolSlides) {
		p.emit("")
		p.emit(". . .")
		p.emit("")
	}
}

func (p *Preprocessor) handleIfdef(symbol string) {
	p.ifStack = append(p.ifStack, p.emitting)
	p.emitting = p.cfg.HasSymbol(symbol)
}

func (p *Preprocessor) handleIfndef(symbol string) {
	p.ifStack = append(p.ifStack, p.emitting)
	p.emitting = !p.cfg.HasSymbol(symbol)
}

// handleElifdef replaces the current emission flag without pushing.
// With no open conditional it is a silent no-op.
func (p *Preprocessor) handleElifdef(symbol string) {
	if len(p.ifStack) > 0 {
		p.emitting = p.cfg.HasSymbol(symbol)
	}
}

func (p *Preprocessor) handleElse(string) {
	if len(p.ifStack) > 0 {
		p.emitting = !p.emitting
	}
}

func (p *Preprocessor) handleEndif(string) {
	if n := len(p.ifStack); n > 0 {
		p.emitting = p.ifStack[n-1]
		p.ifStack = p.ifStack[:n-1]
	}
}

// candidates yields the possible locations of name: the directory of
// the current source first (absent for stdin), then the configured
// include directories in order. This lets a file's own directory shadow
// the global search path.
func (p *Preprocessor) candidates(name string) []string {
	var dirs []string
	if current := p.stack[len(p.stack)-1]; current.dir != "" {
		dirs = append(dirs, current.dir)
	}
	dirs = append(dirs, p.cfg.Includes...)
	result := make([]string, len(dirs))
	for i, dir := range dirs {
		result[i] = filepath.Join(dir, name)
	}
	return result
}

// isOpen reports whether the file is already open somewhere on the
// source stack, comparing resolved absolute paths.
func (p *Preprocessor) isOpen(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	for _, s := range p.stack {
		if s.abs != "" && s.abs == abs {
			return true
		}
	}
	return false
}

func (p *Preprocessor) handleInclude(name string) {
	recursive := false
	for _, candidate := range p.candidates(name) {
		if p.isOpen(candidate) {
			recursive = true
			continue
		}
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		p.stack = append(p.stack, newSource(f, candidate))
		return
	}
	if recursive {
		p.emit("Recursive include: " + name)
	} else {
		p.emit("File not found: " + name)
	}
}

func (p *Preprocessor) handleImage(name string) {
	for _, candidate := range p.candidates(name) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if !strings.HasPrefix(candidate, p.cfg.Root) {
			// Search directories are constrained to the root; a
			// candidate outside it is a configuration error.
			panic(fmt.Sprintf("slider: image %q resolves outside root %q", candidate, p.cfg.Root))
		}
		rel := strings.TrimPrefix(candidate[len(p.cfg.Root):], string(filepath.Separator))
		url := "/" + filepath.ToSlash(rel)
		if p.relDir != "" {
			url = path.Join(p.relDir, filepath.ToSlash(rel))
		}
		p.emit(fmt.Sprintf("![](%s)\\ ", url))
		return
	}
	p.emit("Image not found: " + name)
}

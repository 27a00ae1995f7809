package slider

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// preprocess runs one string input through a preprocessor. Every
// exhausted source contributes one synthetic blank line, so expected
// outputs end with an extra "\n".
func preprocess(t *testing.T, cfg Config, syntax, input string) string {
	t.Helper()
	parse, err := ParserFor(syntax)
	if err != nil {
		t.Fatalf("ParserFor(%q) error = %v", syntax, err)
	}
	var buf bytes.Buffer
	p := NewPreprocessor(cfg, &buf, parse)
	err = p.Run(context.Background(), []Input{{Name: StdinName, R: strings.NewReader(input)}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return buf.String()
}

func TestPreprocessorConditionals(t *testing.T) {
	tests := []struct {
		name     string
		symbols  []string
		input    string
		expected string
	}{
		{
			name:     "plain lines pass through",
			input:    "one\ntwo\n",
			expected: "one\ntwo\n\n",
		},
		{
			name:     "ifdef true emits branch",
			symbols:  []string{"slides"},
			input:    "#ifdef slides\nHello\n#endif\n",
			expected: "Hello\n\n",
		},
		{
			name:     "ifdef false suppresses branch",
			input:    "#ifdef slides\nHello\n#endif\nWorld\n",
			expected: "World\n\n",
		},
		{
			name:     "symbol lookup is case-insensitive",
			symbols:  []string{"slides"},
			input:    "#ifdef SLIDES\nHello\n#endif\n",
			expected: "Hello\n\n",
		},
		{
			name:     "ifndef inverts the test",
			input:    "#ifndef handout\nscreen\n#endif\n",
			expected: "screen\n\n",
		},
		{
			name:     "else takes the other branch",
			input:    "#ifdef slides\nA\n#else\nB\n#endif\n",
			expected: "B\n\n",
		},
		{
			name:     "elifdef replaces the flag",
			symbols:  []string{"handout"},
			input:    "#ifdef slides\nA\n#elifdef handout\nB\n#else\nC\n#endif\n",
			expected: "B\n\n",
		},
		{
			name:     "endif restores outer state",
			symbols:  []string{"outer"},
			input:    "#ifdef outer\nbefore\n#ifdef inner\nhidden\n#endif\nafter\n#endif\n",
			expected: "before\nafter\n\n",
		},
		{
			name:    "nested ifdef runs even under a false outer",
			symbols: []string{"inner"},
			input: "#ifdef outer\n" +
				"#ifdef inner\nemitted\n#else\nnot this\n#endif\n" +
				"suppressed again\n#endif\nvisible\n",
			expected: "emitted\nvisible\n\n",
		},
		{
			name:     "nested else inverts under a false outer",
			input:    "#ifdef a\n#ifdef b\nx\n#else\ny\n#endif\n#endif\nz\n",
			expected: "y\nz\n\n",
		},
		{
			name:     "unbalanced else is a no-op",
			input:    "one\n#else\ntwo\n",
			expected: "one\ntwo\n\n",
		},
		{
			name:     "unbalanced endif is a no-op",
			input:    "one\n#endif\ntwo\n",
			expected: "one\ntwo\n\n",
		},
		{
			name:     "unbalanced elifdef is a no-op",
			input:    "one\n#elifdef slides\ntwo\n",
			expected: "one\ntwo\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Symbols: Symbols(tt.symbols...)}
			got := preprocess(t, cfg, SyntaxHash, tt.input)
			if got != tt.expected {
				t.Errorf("output = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPreprocessorMarkers(t *testing.T) {
	tests := []struct {
		name     string
		symbols  []string
		input    string
		expected string
	}{
		{
			name:     "page emits rule for slides",
			symbols:  []string{"slides"},
			input:    "a\n#page\nb\n",
			expected: "a\n\n----\n\nb\n\n",
		},
		{
			name:     "page emits only a blank line for notes",
			input:    "a\n#page\nb\n",
			expected: "a\n\nb\n\n",
		},
		{
			name:     "pause emits marker for slides",
			symbols:  []string{"slides"},
			input:    "a\n#pause\nb\n",
			expected: "a\n\n. . .\n\nb\n\n",
		},
		{
			name:     "pause is dropped for notes",
			input:    "a\n#pause\nb\n",
			expected: "a\nb\n\n",
		},
		{
			name:     "comment line is dropped",
			input:    "a\n## remark\nb\n",
			expected: "a\nb\n\n",
		},
		{
			name:     "unknown directive stays literal",
			input:    "#frobnicate now\n",
			expected: "#frobnicate now\n\n",
		},
		{
			name:     "hash followed by space stays literal",
			input:    "# Heading\n",
			expected: "# Heading\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Symbols: Symbols(tt.symbols...)}
			got := preprocess(t, cfg, SyntaxHash, tt.input)
			if got != tt.expected {
				t.Errorf("output = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPreprocessorHTMLSyntax(t *testing.T) {
	cfg := Config{Symbols: Symbols("slides")}
	input := "<!--ifdef slides-->\nHello\n<!--endif-->\n<!-- not a directive -->\n"
	got := preprocess(t, cfg, SyntaxHTML, input)
	expected := "Hello\n<!-- not a directive -->\n\n"
	if got != expected {
		t.Errorf("output = %q, want %q", got, expected)
	}
}

func TestPreprocessorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	parse, _ := ParserFor(SyntaxHash)
	var buf bytes.Buffer
	p := NewPreprocessor(Config{}, &buf, parse)
	err := p.Run(ctx, []Input{{Name: StdinName, R: strings.NewReader("never\n")}})
	if err != nil {
		t.Fatalf("Run() with canceled context error = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestPreprocessorNoInput(t *testing.T) {
	parse, _ := ParserFor(SyntaxHash)
	p := NewPreprocessor(Config{}, &bytes.Buffer{}, parse)
	if err := p.Run(context.Background(), nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("Run(nil) error = %v, want ErrNoInput", err)
	}
}

// writeTestFile creates a file with content below dir, creating parent
// directories as needed.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// preprocessFile runs one file through a preprocessor.
func preprocessFile(t *testing.T, cfg Config, path string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	parse, _ := ParserFor(SyntaxHash)
	var buf bytes.Buffer
	p := NewPreprocessor(cfg, &buf, parse)
	if err := p.Run(context.Background(), []Input{{Name: path, R: f}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return buf.String()
}

func TestPreprocessorInclude(t *testing.T) {
	root := t.TempDir()
	main := writeTestFile(t, root, "deck/main.md", "start\n#include part.md\nend\n")
	writeTestFile(t, root, "deck/part.md", "from deck\n")
	writeTestFile(t, root, "shared/part.md", "from shared\n")

	t.Run("own directory shadows include path", func(t *testing.T) {
		cfg := Config{Root: root, Includes: []string{filepath.Join(root, "shared")}}
		got := preprocessFile(t, cfg, main)
		// Both the included file and the including file contribute a
		// synthetic blank line at their end.
		expected := "start\nfrom deck\n\nend\n\n"
		if got != expected {
			t.Errorf("output = %q, want %q", got, expected)
		}
	})

	t.Run("falls back to include path", func(t *testing.T) {
		other := writeTestFile(t, root, "other/main.md", "#include part.md\n")
		cfg := Config{Root: root, Includes: []string{filepath.Join(root, "shared")}}
		got := preprocessFile(t, cfg, other)
		expected := "from shared\n\n\n"
		if got != expected {
			t.Errorf("output = %q, want %q", got, expected)
		}
	})

	t.Run("missing file yields diagnostic", func(t *testing.T) {
		missing := writeTestFile(t, root, "deck/missing.md", "#include nowhere.md\nafter\n")
		cfg := Config{Root: root}
		got := preprocessFile(t, cfg, missing)
		expected := "File not found: nowhere.md\nafter\n\n"
		if got != expected {
			t.Errorf("output = %q, want %q", got, expected)
		}
	})

	t.Run("suppressed include is not opened", func(t *testing.T) {
		cond := writeTestFile(t, root, "deck/cond.md",
			"#ifdef slides\n#include part.md\n#endif\ndone\n")
		cfg := Config{Root: root}
		got := preprocessFile(t, cfg, cond)
		expected := "done\n\n"
		if got != expected {
			t.Errorf("output = %q, want %q", got, expected)
		}
	})
}

func TestPreprocessorRecursiveInclude(t *testing.T) {
	root := t.TempDir()
	self := writeTestFile(t, root, "self.md", "before\n#include self.md\nafter\n")
	cfg := Config{Root: root}
	got := preprocessFile(t, cfg, self)
	expected := "before\nRecursive include: self.md\nafter\n\n"
	if got != expected {
		t.Errorf("output = %q, want %q", got, expected)
	}
}

func TestPreprocessorIncludeCycle(t *testing.T) {
	root := t.TempDir()
	a := writeTestFile(t, root, "a.md", "A1\n#include b.md\nA2\n")
	writeTestFile(t, root, "b.md", "B1\n#include a.md\nB2\n")
	cfg := Config{Root: root}
	got := preprocessFile(t, cfg, a)
	expected := "A1\nB1\nRecursive include: a.md\nB2\n\nA2\n\n"
	if got != expected {
		t.Errorf("output = %q, want %q", got, expected)
	}
}

func TestPreprocessorImage(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "assets/logo.png", "png")

	tests := []struct {
		name     string
		base     string
		input    string
		expected string
	}{
		{
			name:     "absolute link without base",
			input:    "#image logo.png\n",
			expected: "![](/assets/logo.png)\\ \n\n",
		},
		{
			name:     "relative link with base",
			base:     "/deck",
			input:    "#image logo.png\n",
			expected: "![](../assets/logo.png)\\ \n\n",
		},
		{
			name:     "deep base adds more steps",
			base:     "/deck/sub",
			input:    "#image logo.png\n",
			expected: "![](../../assets/logo.png)\\ \n\n",
		},
		{
			name:     "missing image yields diagnostic",
			input:    "#image nothing.png\nafter\n",
			expected: "Image not found: nothing.png\nafter\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeTestFile(t, root, "deck/img.md", tt.input)
			cfg := Config{
				Root:     root,
				Base:     tt.base,
				Includes: []string{filepath.Join(root, "assets")},
			}
			got := preprocessFile(t, cfg, src)
			if got != tt.expected {
				t.Errorf("output = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPreprocessorMultipleInputs(t *testing.T) {
	parse, _ := ParserFor(SyntaxHash)
	var buf bytes.Buffer
	p := NewPreprocessor(Config{}, &buf, parse)
	inputs := []Input{
		{Name: StdinName, R: strings.NewReader("first\n")},
		{Name: StdinName, R: strings.NewReader("second\n")},
	}
	if err := p.Run(context.Background(), inputs); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	expected := "first\n\nsecond\n\n"
	if got := buf.String(); got != expected {
		t.Errorf("output = %q, want %q", got, expected)
	}
}

func TestRelDirPrefix(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"", ""},
		{"/", ""},
		{"/deck", ".."},
		{"/deck/sub", "../.."},
		{"deck/sub", ".."},
		{"deck", ""},
	}
	for _, tt := range tests {
		if got := relDirPrefix(tt.base); got != tt.expected {
			t.Errorf("relDirPrefix(%q) = %q, want %q", tt.base, got, tt.expected)
		}
	}
}

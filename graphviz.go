package slider

import (
	"fmt"
	"os"
	"strings"

	"github.com/t73fde/slider/internal/fileutil"
)

// graphvizEngines are the layout programs of the graphviz family, in
// class match order. The engine name doubles as the renderer command.
var graphvizEngines = []string{"dot", "neato", "twopi", "circo", "fdp"}

// GraphvizFilter renders code blocks classed with a graphviz engine to
// cached images. A block classed plainly "graphviz" is rewritten to
// carry the dot class, deferring rendering to the next pass.
type GraphvizFilter struct {
	cache  FileCache
	runner CommandRunner
}

// NewGraphvizFilter creates the filter with a real command runner.
func NewGraphvizFilter(cache FileCache) *GraphvizFilter {
	return &GraphvizFilter{cache: cache, runner: ExecRunner{}}
}

func (f *GraphvizFilter) Transform(n Node, target string, _ Meta) (any, error) {
	if strings.ToLower(n.Tag) != "codeblock" {
		return nil, nil
	}
	attr, code, ok := parseCodeBlock(n.Content)
	if !ok {
		return nil, nil
	}
	for _, engine := range graphvizEngines {
		if !attr.HasClass(engine) {
			continue
		}
		imageRef, err := renderDiagram(f.cache, target, engine, code, f.generate)
		if err != nil {
			return nil, err
		}
		return diagramImage(attr, imageRef), nil
	}
	if attr.HasClass("graphviz") {
		classes := make([]string, len(attr.Classes))
		for i, class := range attr.Classes {
			if class == "graphviz" {
				class = "dot"
			}
			classes[i] = class
		}
		attr.Classes = classes
		return CodeBlockNode(attr, code), nil
	}
	return nil, nil
}

// generate renders the code through the engine into the cache unless
// the entry already exists. The engine reads the source from standard
// input.
func (f *GraphvizFilter) generate(engine, code, format string) (full, rel string, err error) {
	full, rel, err = f.cache.Name(engine, code, format)
	if err != nil {
		return "", "", err
	}
	if fileutil.FileExists(full) {
		return full, rel, nil
	}
	fmt.Fprintf(os.Stderr, "Call %q to create %s\n", engine, full)
	_, stderr, runErr := f.runner.Run(code, engine, "-T", format, "-o", full)
	reportRenderer(engine, full, stderr, runErr)
	return full, rel, nil
}

// parseCodeBlock splits a CodeBlock payload into attributes and text.
func parseCodeBlock(v any) (Attr, string, bool) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return Attr{}, "", false
	}
	attr, ok := parseAttr(pair[0])
	if !ok {
		return Attr{}, "", false
	}
	code, ok := pair[1].(string)
	if !ok {
		return Attr{}, "", false
	}
	return attr, code, true
}

// renderDiagram produces the image for a diagram code block: SVG with a
// site-relative link for HTML-family targets, PNG with a file path for
// everything else (LaTeX embeds the file directly).
func renderDiagram(cache FileCache, target, engine, code string,
	generate func(engine, code, format string) (full, rel string, err error),
) (string, error) {
	if isHTMLFormat(target) {
		_, rel, err := generate(engine, code, "svg")
		if err != nil {
			return "", err
		}
		return cache.URL(rel), nil
	}
	full, _, err := generate(engine, code, "png")
	if err != nil {
		return "", err
	}
	return full, nil
}

// diagramImage wraps the rendered image in a paragraph, moving a
// caption key-value from the block attributes onto the image.
func diagramImage(attr Attr, imageRef string) Node {
	caption, typef, keyvals := extractCaption(attr.KeyVals)
	imageAttr := Attr{Ident: attr.Ident, KeyVals: keyvals}
	return Para(ImageNode(imageAttr, caption, imageRef, typef))
}

// reportRenderer surfaces renderer diagnostics. A missing output file
// is logged but deliberately not fatal: one broken diagram must not
// abort a whole document conversion.
func reportRenderer(engine, outfile, stderr string, err error) {
	if stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", engine, err)
	}
	if !fileutil.FileExists(outfile) {
		fmt.Fprintf(os.Stderr, "%s did not produce %s\n", engine, outfile)
	}
}

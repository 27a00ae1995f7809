package slider

import (
	"fmt"
	"os"
	"strings"

	"github.com/t73fde/slider/internal/fileutil"
)

// blockdiagEngines are the diagram tools of the blockdiag family. The
// engine name doubles as the renderer command and as the extension of
// the cached source file.
var blockdiagEngines = map[string]bool{
	"blockdiag":  true,
	"seqdiag":    true,
	"actdiag":    true,
	"nwdiag":     true,
	"packetdiag": true,
	"rackdiag":   true,
}

// BlockdiagFilter renders code blocks classed with a blockdiag-family
// engine to cached images. Unlike graphviz, these tools require a file
// argument, so the source is first written next to the cache entry.
type BlockdiagFilter struct {
	cache  FileCache
	runner CommandRunner
}

// NewBlockdiagFilter creates the filter with a real command runner.
func NewBlockdiagFilter(cache FileCache) *BlockdiagFilter {
	return &BlockdiagFilter{cache: cache, runner: ExecRunner{}}
}

func (f *BlockdiagFilter) Transform(n Node, target string, _ Meta) (any, error) {
	if strings.ToLower(n.Tag) != "codeblock" {
		return nil, nil
	}
	attr, code, ok := parseCodeBlock(n.Content)
	if !ok {
		return nil, nil
	}
	for _, class := range attr.Classes {
		if !blockdiagEngines[class] {
			continue
		}
		imageRef, err := renderDiagram(f.cache, target, class, code, f.generate)
		if err != nil {
			return nil, err
		}
		return diagramImage(attr, imageRef), nil
	}
	return nil, nil
}

// generate renders the code through the engine into the cache unless
// the entry already exists. The source text goes into a digest-named
// sibling file with the engine name as extension.
func (f *BlockdiagFilter) generate(engine, code, format string) (full, rel string, err error) {
	full, rel, err = f.cache.Name(engine, code, format)
	if err != nil {
		return "", "", err
	}
	if fileutil.FileExists(full) {
		return full, rel, nil
	}
	srcName, _, err := f.cache.Name(engine, code, engine)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(srcName, []byte(code+"\n"), 0o600); err != nil {
		return "", "", fmt.Errorf("writing diagram source: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Call %q to create %s\n", engine, full)
	_, stderr, runErr := f.runner.Run("", engine, "-T", format, "-o", full, srcName)
	reportRenderer(engine, full, stderr, runErr)
	return full, rel, nil
}

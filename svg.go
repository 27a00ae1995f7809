package slider

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/t73fde/slider/internal/fileutil"
)

// SVGFilter retargets SVG images to PNG for the LaTeX output path,
// since pdflatex cannot embed SVG. It prefers an already existing
// sibling PNG and otherwise rasterizes the SVG through ImageMagick's
// convert into the cache.
type SVGFilter struct {
	cache  FileCache
	runner CommandRunner
}

// NewSVGFilter creates the filter with a real command runner.
func NewSVGFilter(cache FileCache) *SVGFilter {
	return &SVGFilter{cache: cache, runner: ExecRunner{}}
}

func (f *SVGFilter) Transform(n Node, target string, _ Meta) (any, error) {
	if target != "latex" || strings.ToLower(n.Tag) != "image" {
		return nil, nil
	}
	payload, ok := n.Content.([]any)
	if !ok || len(payload) != 3 {
		return nil, nil
	}
	pair, ok := payload[2].([]any)
	if !ok || len(pair) != 2 {
		return nil, nil
	}
	imageRef, ok := pair[0].(string)
	if !ok {
		return nil, nil
	}
	extension := filepath.Ext(imageRef)
	if strings.ToLower(extension) != ".svg" {
		return nil, nil
	}
	newRef := f.siblingPNG(strings.TrimSuffix(imageRef, extension))
	if newRef == "" {
		newRef = f.convert(imageRef)
	}
	if newRef == "" {
		return nil, nil
	}
	return Node{Tag: n.Tag, Content: []any{payload[0], payload[1], []any{newRef, pair[1]}}}, nil
}

// siblingPNG returns an existing PNG next to the SVG, or "".
func (f *SVGFilter) siblingPNG(rootRef string) string {
	pngRef := rootRef + ".png"
	if fileutil.FileExists(pngRef) {
		return pngRef
	}
	return ""
}

// convert rasterizes the SVG into a cache entry keyed by the SVG
// content. A missing source file is tolerated as "no change".
func (f *SVGFilter) convert(imageRef string) string {
	code, err := os.ReadFile(imageRef) // #nosec G304 -- path comes from the document
	if err != nil {
		return ""
	}
	full, _, err := f.cache.Name("convert", string(code), "png")
	if err != nil {
		return ""
	}
	if fileutil.FileExists(full) {
		return full
	}
	fmt.Fprintf(os.Stderr, "Call \"convert\" to create %s\n", full)
	_, stderr, runErr := f.runner.Run("", "convert", imageRef, full)
	reportRenderer("convert", full, stderr, runErr)
	return full
}

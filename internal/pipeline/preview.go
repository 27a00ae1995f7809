package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrPreviewRender indicates the preview conversion failed.
var ErrPreviewRender = errors.New("preview rendering failed")

// previewTemplate wraps goldmark's fragment output in a complete HTML5
// document.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// PreviewConverter renders preprocessed markdown to standalone HTML
// with goldmark. It is a pure-Go substitute for the pandoc pipeline
// when only a quick look at a document is needed; no filters run.
type PreviewConverter struct {
	md goldmark.Markdown
}

// NewPreviewConverter creates a converter with GFM extensions, footnote
// support, and chroma syntax highlighting.
func NewPreviewConverter() *PreviewConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &PreviewConverter{md: md}
}

// ToHTML converts markdown content to a standalone HTML5 document.
// Goldmark has no native context support, so conversion runs in a
// goroutine and the context is honored via select.
func (c *PreviewConverter) ToHTML(ctx context.Context, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewRender, err)}
			return
		}
		done <- result{html: fmt.Sprintf(previewTemplate, title, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

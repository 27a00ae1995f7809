package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/t73fde/slider"
	"github.com/t73fde/slider/internal/config"
	"github.com/t73fde/slider/internal/pipeline"
)

// Sentinel errors for the render paths.
var (
	ErrNoRenderer    = errors.New("no renderer for file extension")
	ErrPreviewFormat = errors.New("--preview supports markdown sources only")
)

// renderers maps source file extensions to converter families,
// mirroring the view dispatch of the original web layer.
var renderers = map[string]string{
	".md":       "pandoc",
	".markdown": "pandoc",
	".txt":      "asciidoc",
}

func run(ctx context.Context, flags *cliFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}

	renderer, ok := renderers[strings.ToLower(filepath.Ext(flags.file))]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoRenderer, filepath.Ext(flags.file))
	}

	switch {
	case flags.preview:
		if renderer != "pandoc" {
			return ErrPreviewFormat
		}
		return renderPreview(ctx, cfg, flags)
	case renderer == "asciidoc":
		return renderAsciidoc(ctx, cfg, flags)
	case flags.slides:
		return renderSlides(ctx, cfg, flags)
	default:
		return renderNotes(ctx, cfg, flags)
	}
}

// preprocess runs the built-in preprocessor over the source file and
// returns the expanded markup. Slides use the root itself as base so
// image links are site-absolute; notes use the file's directory so that
// LaTeX finds resources relative to it.
func preprocess(ctx context.Context, cfg *config.Config, file string, slides bool) (*bytes.Buffer, error) {
	rootDir := slider.NormalizeDir("", cfg.RootDir)
	baseDir := ""
	if !slides {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", file, err)
		}
		baseDir = strings.TrimPrefix(slider.NormalizeDir(rootDir, filepath.Dir(abs)), rootDir)
	}
	var symbols map[string]bool
	if slides {
		symbols = slider.Symbols(slider.SymbolSlides)
	}
	pcfg := slider.Config{
		Root:     rootDir,
		Base:     baseDir,
		Includes: slider.IncludeDirs(cfg.Includes()),
		Symbols:  symbols,
	}
	parse, err := slider.ParserFor(slider.SyntaxHTML)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file) // #nosec G304 -- the file to render is a user argument
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	p := slider.NewPreprocessor(pcfg, &buf, parse)
	if err := p.Run(ctx, []slider.Input{{Name: file, R: f}}); err != nil {
		return nil, err
	}
	return &buf, nil
}

func renderPreview(ctx context.Context, cfg *config.Config, flags *cliFlags) error {
	buf, err := preprocess(ctx, cfg, flags.file, flags.slides)
	if err != nil {
		return err
	}
	title := strings.TrimSuffix(filepath.Base(flags.file), filepath.Ext(flags.file))
	html, err := pipeline.NewPreviewConverter().ToHTML(ctx, title, buf.String())
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(flags.output)
	if err != nil {
		return err
	}
	defer closeOut()
	_, err = io.WriteString(out, html)
	return err
}

func renderSlides(ctx context.Context, cfg *config.Config, flags *cliFlags) error {
	buf, err := preprocess(ctx, cfg, flags.file, true)
	if err != nil {
		return err
	}
	argv, err := pipeline.ParseCommand(cfg.SlideCommand, templateVars(cfg, flags.file, ""))
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(flags.output)
	if err != nil {
		return err
	}
	defer closeOut()
	return newPipe(cfg, flags.verbose).Run(ctx, []pipeline.Stage{{Argv: argv}}, buf, out)
}

func renderNotes(ctx context.Context, cfg *config.Config, flags *cliFlags) error {
	buf, err := preprocess(ctx, cfg, flags.file, false)
	if err != nil {
		return err
	}
	output := flags.output
	if output == "" {
		output = strings.TrimSuffix(filepath.Base(flags.file), filepath.Ext(flags.file)) + ".pdf"
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving output: %w", err)
	}
	argv, err := pipeline.ParseCommand(cfg.NotesCommand, templateVars(cfg, flags.file, absOutput))
	if err != nil {
		return err
	}
	// The converter runs in the source directory so that LaTeX resolves
	// relative resources.
	stage := pipeline.Stage{Argv: argv, Dir: filepath.Dir(flags.file)}
	if err := newPipe(cfg, flags.verbose).Run(ctx, []pipeline.Stage{stage}, buf, io.Discard); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", output)
	return nil
}

func renderAsciidoc(ctx context.Context, cfg *config.Config, flags *cliFlags) error {
	template := cfg.AsciidocNotesCommand
	if flags.slides {
		template = cfg.AsciidocSlideCommand
	}
	argv, err := pipeline.ParseCommand(template, templateVars(cfg, flags.file, ""))
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(flags.output)
	if err != nil {
		return err
	}
	defer closeOut()
	return newPipe(cfg, flags.verbose).Run(ctx, []pipeline.Stage{{Argv: argv}}, nil, out)
}

func templateVars(cfg *config.Config, input, output string) pipeline.Vars {
	return pipeline.Vars{
		"slide_style": cfg.SlideStyle,
		"bib_path":    cfg.BibPath,
		"cite_style":  cfg.CiteStyle,
		"input":       input,
		"output":      output,
	}
}

// newPipe builds the command pipe, handing the cache location down to
// the slide-filter child processes through the environment.
func newPipe(cfg *config.Config, verbose bool) *pipeline.Pipe {
	return &pipeline.Pipe{
		Env: []string{
			"SLIDER_TEMPDIR=" + cfg.TempDir,
			"SLIDER_TEMPLINK=" + cfg.TempLink,
		},
		Verbose: verbose,
	}
}

// openOutput opens the output sink; empty means standard output.
func openOutput(name string) (io.Writer, func(), error) {
	if name == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(name) // #nosec G304 -- output path is a user argument
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// Command slide-preprocessor expands include, image, and conditional
// directives in slide sources, writing the result to standard output.
// It is the first stage of the slider render pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/t73fde/slider"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("slide-preprocessor", flag.ContinueOnError)
	root := flags.StringP("root", "R", "", "root directory")
	base := flags.StringP("base", "B", "", "base directory")
	defines := flags.StringArrayP("define", "D", nil, "define symbol")
	slides := flags.BoolP("slides", "s", false, fmt.Sprintf("define symbol %q", slider.SymbolSlides))
	includes := flags.StringArrayP("include", "I", nil, "add directory to include search path")
	syntax := flags.StringP("parser", "P", slider.SyntaxHash, "select line parser (hash or html)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	parse, err := slider.ParserFor(*syntax)
	if err != nil {
		return err
	}

	rootDir := slider.NormalizeDir("", *root)
	baseDir := strings.TrimPrefix(slider.NormalizeDir(rootDir, *base), rootDir)
	symbols := slider.Symbols(*defines...)
	if *slides {
		symbols[slider.SymbolSlides] = true
	}
	cfg := slider.Config{
		Root:     rootDir,
		Base:     baseDir,
		Includes: slider.IncludeDirs(*includes),
		Symbols:  symbols,
	}

	inputs, closeInputs, err := openInputs(flags.Args())
	if err != nil {
		return err
	}
	defer closeInputs()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return slider.NewPreprocessor(cfg, os.Stdout, parse).Run(ctx, inputs)
}

// openInputs opens the named files, defaulting to standard input when
// none are given. The returned function closes everything opened here.
func openInputs(names []string) ([]slider.Input, func(), error) {
	if len(names) == 0 {
		return []slider.Input{{Name: slider.StdinName, R: os.Stdin}}, func() {}, nil
	}
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	inputs := make([]slider.Input, 0, len(names))
	for _, name := range names {
		f, err := os.Open(name) // #nosec G304 -- input files are user arguments
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		files = append(files, f)
		inputs = append(inputs, slider.Input{Name: name, R: f})
	}
	return inputs, closeAll, nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for argument handling.
var (
	ErrNoFile       = errors.New("usage: slider [flags] <file>")
	ErrModeConflict = errors.New("--slides and --preview are mutually exclusive")
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	config  string // config file name or path
	slides  bool   // render a slide deck instead of notes/PDF
	preview bool   // render HTML with the built-in converter
	output  string // output file; empty means stdout (notes: <input>.pdf)
	verbose bool
	file    string // the source file to render
}

func parseFlags(args []string) (*cliFlags, error) {
	var f cliFlags
	flags := flag.NewFlagSet("slider", flag.ContinueOnError)
	flags.StringVarP(&f.config, "config", "c", "", "config file name or path")
	flags.BoolVarP(&f.slides, "slides", "s", false, "render a slide deck")
	flags.BoolVar(&f.preview, "preview", false, "render HTML with the built-in converter")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default: stdout, notes: <input>.pdf)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log executed commands")
	version := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if *version {
		fmt.Println("slider " + Version)
		os.Exit(0)
	}
	if f.slides && f.preview {
		return nil, ErrModeConflict
	}
	if flags.NArg() != 1 {
		return nil, ErrNoFile
	}
	f.file = flags.Arg(0)
	return &f, nil
}

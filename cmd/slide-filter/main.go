// Command slide-filter is a pandoc JSON filter. It reads a document
// from standard input, applies the slider filter chain for the output
// format given as the first argument, and writes the result to
// standard output. Pandoc invokes it via -F slide-filter.
//
// The content-addressed cache location comes from the environment:
// SLIDER_TEMPDIR names the cache directory and SLIDER_TEMPLINK the
// site-relative URL prefix mapped onto it.
package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/t73fde/slider"
)

// Environment variables supplying the cache configuration.
const (
	EnvTempDir  = "SLIDER_TEMPDIR"
	EnvTempLink = "SLIDER_TEMPLINK"
)

var errMissingEnv = errors.New(EnvTempDir + " and " + EnvTempLink + " must be set")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	target := flag.Arg(0) // pandoc passes the output format as argv[1]

	tempDir := os.Getenv(EnvTempDir)
	tempLink := os.Getenv(EnvTempLink)
	if tempDir == "" || tempLink == "" {
		return errMissingEnv
	}
	cache := slider.FileCache{Dir: tempDir, Link: tempLink}

	return slider.RunFilters(os.Stdin, os.Stdout, target,
		slider.MetaVarFilter{},
		slider.NewGermanQuotesFilter(),
		slider.NewGraphvizFilter(cache),
		slider.NewBlockdiagFilter(cache),
		slider.NewSVGFilter(cache),
	)
}

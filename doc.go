// Package slider implements the text processing core for rendering slide
// decks and handouts from markup files.
//
// Two independent engines are provided:
//
//   - Preprocessor: a line-oriented macro processor that expands include,
//     image, and conditional directives before the markup reaches an
//     external converter such as pandoc. See [Preprocessor].
//
//   - Filter chain: a set of transformers over the pandoc JSON document
//     tree that substitute metadata variables, toggle typographic quotes,
//     and render diagram code blocks to images through external tools.
//     See [Filter] and [RunFilters].
//
// Both engines share a content-addressed cache ([FileCache]) so that
// identical diagram sources are rendered at most once.
//
// # Preprocessing
//
//	cfg := slider.Config{Root: "/srv/slides", Symbols: slider.Symbols("slides")}
//	parse, _ := slider.ParserFor(slider.SyntaxHash)
//	p := slider.NewPreprocessor(cfg, os.Stdout, parse)
//	err := p.Run(ctx, []slider.Input{{Name: "deck.md", R: f}})
//
// # Filtering
//
// The filter chain speaks the pandoc JSON filter protocol: a document is
// read from standard input, transformed, and written to standard output,
// with the output format name passed as the first argument.
//
//	cache := slider.FileCache{Dir: tempDir, Link: tempLink}
//	err := slider.RunFilters(os.Stdin, os.Stdout, format,
//	    slider.MetaVarFilter{},
//	    slider.NewGermanQuotesFilter(),
//	    slider.NewGraphvizFilter(cache),
//	    slider.NewBlockdiagFilter(cache),
//	    slider.NewSVGFilter(cache),
//	)
package slider

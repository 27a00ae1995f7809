// Package pipeline builds and executes the external converter pipelines
// that turn preprocessed markup into slides or handouts, and provides a
// pure-Go preview renderer for when pandoc is not available.
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
)

// ErrEmptyCommand indicates a command template expanded to nothing.
var ErrEmptyCommand = errors.New("command template is empty")

// Vars holds the expansion variables available to command templates
// (slide_style, bib_path, cite_style, input, output).
type Vars map[string]string

// ParseCommand splits a shell-quoted command template into an argv
// vector, expanding ${name} references per token. Unknown variables
// expand to the empty string.
func ParseCommand(template string, vars Vars) ([]string, error) {
	words, err := shellquote.Split(template)
	if err != nil {
		return nil, fmt.Errorf("parsing command template: %w", err)
	}
	argv := make([]string, 0, len(words))
	for _, word := range words {
		expanded := os.Expand(word, func(name string) string { return vars[name] })
		if expanded == "" && word != "" && word[0] == '$' {
			// A token that was only a variable and expanded away is
			// dropped rather than passed as an empty argument.
			continue
		}
		argv = append(argv, expanded)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

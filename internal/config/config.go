// Package config loads the slider configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/t73fde/slider/internal/fileutil"
	"github.com/t73fde/slider/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrBadTempLink    = errors.New("temp_link must start and end with a slash")
)

// Config holds the slider application configuration. Command templates
// are shell-quoted strings; tokens of the form ${name} are expanded
// from the pipeline variables (slide_style, bib_path, cite_style,
// input, output) before execution.
type Config struct {
	RootDir      string `yaml:"root_dir"`      // served/source root; default: working directory
	IncludePaths string `yaml:"include_paths"` // colon-separated include search path
	SlideStyle   string `yaml:"slide_style"`   // pandoc slide writer (slidy, revealjs, ...)
	BibPath      string `yaml:"bib_path"`      // bibliography file for citeproc templates
	CiteStyle    string `yaml:"cite_style"`    // CSL style for citeproc templates
	TempDir      string `yaml:"temp_dir"`      // content-addressed cache directory
	TempLink     string `yaml:"temp_link"`     // URL prefix mapped onto temp_dir

	SlideCommand         string `yaml:"slide_command"`          // pandoc slide pipeline stage
	NotesCommand         string `yaml:"notes_command"`          // pandoc PDF pipeline stage
	AsciidocSlideCommand string `yaml:"asciidoc_slide_command"` // asciidoc slide stage
	AsciidocNotesCommand string `yaml:"asciidoc_notes_command"` // asciidoc note stage
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cwd, _ := os.Getwd()
	return &Config{
		RootDir:    cwd,
		SlideStyle: "slidy",
		TempDir:    filepath.Join(os.TempDir(), "slider"),
		TempLink:   "/slider-temp/",
		SlideCommand: "pandoc -f markdown+smart -s -F slide-filter" +
			" --slide-level 2 -t ${slide_style}",
		NotesCommand: "pandoc -f markdown+smart --pdf-engine=xelatex -F slide-filter" +
			" -o ${output} -V documentclass=scrartcl -V margin-left=1in -V margin-top=1in",
		AsciidocSlideCommand: "asciidoc -a beamer -o - ${input}",
		AsciidocNotesCommand: "asciidoc -a script -o - ${input}",
	}
}

// Includes splits the colon-separated include path list. An empty list
// defaults to <root>/pandoc.
func (c *Config) Includes() []string {
	if strings.TrimSpace(c.IncludePaths) == "" {
		return []string{filepath.Join(c.RootDir, "pandoc")}
	}
	parts := strings.Split(c.IncludePaths, ":")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.TempLink, "/") || !strings.HasSuffix(c.TempLink, "/") {
		return fmt.Errorf("%w: got %q", ErrBadTempLink, c.TempLink)
	}
	return nil
}

// Load loads the configuration. An explicit path must exist; an empty
// nameOrPath searches the standard locations and falls back to
// Default() when no config file is present. Fields absent from the file
// keep their default values.
func Load(nameOrPath string) (*Config, error) {
	configPath := nameOrPath
	if configPath == "" || !fileutil.IsFilePath(configPath) {
		found, err := resolvePath(configPath)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return Default(), nil
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePath searches for a config file. With an empty name the
// default file names are tried; a missing file is not an error then.
// Locations in order: current directory, then ~/.config/slider/.
func resolvePath(name string) (string, error) {
	explicit := name != ""
	var candidates []string
	if explicit {
		candidates = []string{name, name + ".yaml", name + ".yml"}
	} else {
		candidates = []string{".slider.yaml", ".slider.yml"}
	}
	for _, candidate := range candidates {
		if fileutil.FileExists(candidate) {
			return candidate, nil
		}
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		names := candidates
		if !explicit {
			names = []string{"config.yaml", "config.yml"}
		}
		for _, n := range names {
			userPath := filepath.Join(userConfigDir, "slider", n)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
		}
	}
	if explicit {
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	return "", nil
}

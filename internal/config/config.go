// Package config loads the service configuration from a YAML file.
package config

import (
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config holds everything the auto-phrasing service needs at startup.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// PhraseFiles are wordlist files loaded into the dictionary.
	PhraseFiles []string `yaml:"phrase_files"`
	// PhraseDB is an optional sqlite database of managed phrases,
	// merged with the wordlist files.
	PhraseDB string `yaml:"phrase_db"`
	// CaseSensitive disables case folding when matching phrases.
	CaseSensitive bool `yaml:"case_sensitive"`
	// Separator replaces the spaces inside a merged phrase token.
	// Empty concatenates the words directly.
	Separator string `yaml:"separator"`
	// EmitSingleTokens keeps the original word tokens and interleaves
	// merged phrase tokens instead of replacing them.
	EmitSingleTokens bool `yaml:"emit_single_tokens"`
	// DownstreamParser names the parser rewritten queries are handed to.
	DownstreamParser string `yaml:"downstream_parser"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Listen:           ":8080",
		Separator:        "_",
		DownstreamParser: "term",
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the constraints the YAML schema cannot express.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Separator) > 1 {
		return errors.Errorf("separator %q must be empty or a single character", c.Separator)
	}
	if c.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	if c.DownstreamParser == "" {
		return errors.New("downstream_parser must not be empty")
	}
	return nil
}

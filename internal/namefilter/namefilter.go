// Package namefilter validates requested usernames.
package namefilter

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the name filter configuration.
type Config struct {
	Enabled     bool     `yaml:"enabled"`
	MaxLength   int      `yaml:"max_length"`
	BannedWords []string `yaml:"banned_words"`
	BannedNames []string `yaml:"banned_names"`
}

// LoadConfig loads name filter configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NameFilter screens usernames against banned names (exact match) and
// banned words (substring match).
type NameFilter struct {
	enabled     bool
	maxLength   int
	bannedWords []string
	bannedNames []string
}

// DefaultMaxLength caps username length when no limit is configured.
const DefaultMaxLength = 20

// New builds a NameFilter from a Config. A nil config disables word
// screening but keeps the length cap.
func New(cfg *Config) *NameFilter {
	nf := &NameFilter{maxLength: DefaultMaxLength}
	if cfg == nil {
		return nf
	}

	nf.enabled = cfg.Enabled
	if cfg.MaxLength > 0 {
		nf.maxLength = cfg.MaxLength
	}
	for _, word := range cfg.BannedWords {
		if word != "" {
			nf.bannedWords = append(nf.bannedWords, strings.ToLower(word))
		}
	}
	for _, name := range cfg.BannedNames {
		if name != "" {
			nf.bannedNames = append(nf.bannedNames, strings.ToLower(name))
		}
	}
	return nf
}

// Clean trims a requested username and truncates it to the length cap.
func (nf *NameFilter) Clean(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > nf.maxLength {
		name = name[:nf.maxLength]
	}
	return name
}

// Check validates a cleaned username. It returns an empty string when the
// name is acceptable, otherwise the rejection reason.
func (nf *NameFilter) Check(name string) string {
	if !nf.enabled {
		return ""
	}

	lower := strings.ToLower(name)
	for _, banned := range nf.bannedNames {
		if lower == banned {
			return "That name is not allowed."
		}
	}
	for _, word := range nf.bannedWords {
		if strings.Contains(lower, word) {
			return "That name contains a word that is not allowed."
		}
	}
	return ""
}

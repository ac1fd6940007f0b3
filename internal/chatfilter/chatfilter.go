// Package chatfilter screens chat messages against a banned word list.
package chatfilter

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode determines what happens to a message containing a banned word.
type Mode string

const (
	// ModeReplace masks each banned word with asterisks.
	ModeReplace Mode = "REPLACE"
	// ModeBlock rejects the whole message.
	ModeBlock Mode = "BLOCK"
)

// Config holds the chat filter configuration.
type Config struct {
	Enabled     bool            `yaml:"enabled"`
	Mode        Mode            `yaml:"mode"`
	MaxLength   int             `yaml:"max_length"`
	BannedWords []string        `yaml:"banned_words"`
	Antispam    *AntispamConfig `yaml:"antispam"`
}

// AntispamConfig carries the rate limit settings that ride along in the
// chat filter file.
type AntispamConfig struct {
	Enabled               bool `yaml:"enabled"`
	MaxMessages           int  `yaml:"max_messages"`
	TimeWindowSeconds     int  `yaml:"time_window_seconds"`
	RepeatCooldownSeconds int  `yaml:"repeat_cooldown_seconds"`
}

// LoadConfig loads chat filter configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeReplace
	}
	return &cfg, nil
}

// Filter screens messages. Banned word patterns are compiled once at
// construction.
type Filter struct {
	enabled   bool
	mode      Mode
	maxLength int
	patterns  []*regexp.Regexp
}

// DefaultMaxLength caps chat messages when no limit is configured.
const DefaultMaxLength = 200

// New builds a Filter from a Config. A nil config disables filtering but
// still enforces the default length cap.
func New(cfg *Config) *Filter {
	f := &Filter{maxLength: DefaultMaxLength}
	if cfg == nil {
		return f
	}

	f.enabled = cfg.Enabled
	f.mode = cfg.Mode
	if cfg.MaxLength > 0 {
		f.maxLength = cfg.MaxLength
	}

	// Case-insensitive whole-word matching.
	for _, word := range cfg.BannedWords {
		if word == "" {
			continue
		}
		f.patterns = append(f.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return f
}

// Sanitize trims and caps a message, then applies the banned word rules.
// It returns the message to deliver and whether delivery should proceed.
// In REPLACE mode banned words come back masked; in BLOCK mode a violating
// message returns ok=false.
func (f *Filter) Sanitize(message string) (string, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", false
	}
	if len(message) > f.maxLength {
		message = message[:f.maxLength]
	}

	if !f.enabled || len(f.patterns) == 0 {
		return message, true
	}

	violated := false
	for _, p := range f.patterns {
		if !p.MatchString(message) {
			continue
		}
		violated = true
		if f.mode == ModeReplace {
			message = p.ReplaceAllStringFunc(message, func(match string) string {
				return strings.Repeat("*", len(match))
			})
		}
	}

	if violated && f.mode == ModeBlock {
		return "", false
	}
	return message, true
}

// IsEnabled reports whether banned word screening is active.
func (f *Filter) IsEnabled() bool {
	return f.enabled
}

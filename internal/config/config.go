// Package config loads kalk settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/lifers/kalkucilik/pkg/runtime"
)

// Config holds the settings shared by every kalk command.
// Command-line flags override these values.
type Config struct {
	HistoryLimit int    `env:"KALK_HISTORY_LIMIT" envDefault:"1000"`
	Prompt       string `env:"KALK_PROMPT" envDefault:"> "`
	NoColor      bool   `env:"KALK_NO_COLOR" envDefault:"false"`
	FoldWidth    bool   `env:"KALK_FOLD_WIDTH" envDefault:"true"`
}

// ErrNegativeHistory is returned when KALK_HISTORY_LIMIT is below zero.
var ErrNegativeHistory = errors.New("history limit must not be negative")

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the process environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges the env parser cannot express.
func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("KALK_HISTORY_LIMIT=%d: %w", c.HistoryLimit, ErrNegativeHistory)
	}
	return nil
}

// SessionOptions translates the config into session options.
func (c Config) SessionOptions() []runtime.Option {
	return []runtime.Option{
		runtime.WithHistoryLimit(c.HistoryLimit),
		runtime.WithWidthFolding(c.FoldWidth),
	}
}

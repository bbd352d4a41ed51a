// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Selector SelectorConfig `toml:"selector"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Deck           *string   `toml:"deck"`
	Mode           *string   `toml:"mode"`
	Questions      *int      `toml:"questions"`
	Groups         *[]string `toml:"groups"`
	PersistWeights *bool     `toml:"persist-weights"`
}

// SelectorConfig maps adaptive selection tuning.
type SelectorConfig struct {
	CorrectFactor *float64 `toml:"correct-factor"`
	WrongFactor   *float64 `toml:"wrong-factor"`
	MinWeight     *float64 `toml:"min-weight"`
	MaxWeight     *float64 `toml:"max-weight"`
	Recent        *int     `toml:"recent"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// config holds default new-index parameters read from an optional JWCC
// (JSON-with-comments) defaults file. Precedence is defaults < global
// config < project config < flags: each layer overrides only the fields it
// sets to a non-zero value.
type config struct {
	KeySize   int `json:"key_size"`   //nolint:tagliatelle
	ValueSize int `json:"value_size"` //nolint:tagliatelle
	Capacity  int `json:"capacity"`
}

func defaultConfig() config {
	return config{KeySize: 32, ValueSize: 12, Capacity: 1000}
}

const projectConfigName = ".borghash-cli.jsonc"

// globalConfigPath returns $XDG_CONFIG_HOME/borghash-cli/config.jsonc, or
// ~/.config/borghash-cli/config.jsonc if XDG_CONFIG_HOME is unset.
func globalConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "borghash-cli", "config.jsonc")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "borghash-cli", "config.jsonc")
}

// loadConfig merges defaults, the global config file, and the project
// config file (./.borghash-cli.jsonc), in that order. Missing files are
// silently skipped.
func loadConfig(workDir string) (config, error) {
	cfg := defaultConfig()

	if path := globalConfigPath(); path != "" {
		overlay, loaded, err := loadConfigFile(path)
		if err != nil {
			return config{}, err
		}

		if loaded {
			cfg = mergeConfig(cfg, overlay)
		}
	}

	projectPath := filepath.Join(workDir, projectConfigName)

	overlay, loaded, err := loadConfigFile(projectPath)
	if err != nil {
		return config{}, err
	}

	if loaded {
		cfg = mergeConfig(cfg, overlay)
	}

	return cfg, nil
}

func loadConfigFile(path string) (config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from trusted env/cwd
	if err != nil {
		if os.IsNotExist(err) {
			return config{}, false, nil
		}

		return config{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return config{}, false, fmt.Errorf("parsing %s as JWCC: %w", path, err)
	}

	var cfg config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return config{}, false, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, true, nil
}

func mergeConfig(base, overlay config) config {
	if overlay.KeySize > 0 {
		base.KeySize = overlay.KeySize
	}

	if overlay.ValueSize > 0 {
		base.ValueSize = overlay.ValueSize
	}

	if overlay.Capacity > 0 {
		base.Capacity = overlay.Capacity
	}

	return base
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/chatkit/internal/errors"
)

// Load reads and parses the config file at path.
// Returns nil, nil if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.ConfigLoadFailed(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, fmt.Errorf("failed to parse config: %w", err))
	}

	return &cfg, nil
}

// LoadAndMerge loads the config at path, merges it onto the defaults and
// validates the result. An empty path means DefaultPath.
func LoadAndMerge(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.ConfigLoadFailed("~/.chatkit", err)
		}
		path = p
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if cfg == nil {
		return defaults, nil
	}

	merged := Merge(cfg, defaults)
	if errs := Validate(merged); len(errs) > 0 {
		return nil, errors.ConfigInvalid(errs[0].Error())
	}
	return merged, nil
}

// Save writes cfg to path as YAML, creating the directory if needed. The
// file is replaced atomically.
func Save(path string, cfg *Config) error {
	if errs := Validate(Merge(cfg, DefaultConfig())); len(errs) > 0 {
		return errors.ConfigInvalid(errs[0].Error())
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.E(errors.Op("config.Save"), errors.KindConfig, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.E(errors.Op("config.Save"), errors.KindIO, path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.E(errors.Op("config.Save"), errors.KindIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.E(errors.Op("config.Save"), errors.KindIO, path, err)
	}
	return nil
}

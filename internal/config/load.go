package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BackendURLEnv overrides backend_url when set.
const BackendURLEnv = "BFLOW_BACKEND_URL"

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg, os.Getenv)
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads the explicit path when given, otherwise the nearest config
// above startDir. Without any config file the defaults are used.
func Resolve(explicitPath, startDir string) (Config, string, error) {
	path := strings.TrimSpace(explicitPath)
	if path == "" {
		found, err := FindConfigPath(startDir)
		if errors.Is(err, ErrConfigNotFound) {
			cfg := Config{}
			ApplyEnv(&cfg, os.Getenv)
			Normalize(&cfg)
			if err := Validate(&cfg); err != nil {
				return Config{}, "", err
			}
			return cfg, "", nil
		}
		if err != nil {
			return Config{}, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Config{}, errors.New("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if value := strings.TrimSpace(getenv(BackendURLEnv)); value != "" {
		cfg.BackendURL = value
	}
}

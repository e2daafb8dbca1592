package config

import (
	"slices"
	"strings"

	"bflowdash/internal/dashboard"
	"bflowdash/pkg/flowclient"
)

// Default values applied by Normalize.
const (
	DefaultListType = "domains"
	DefaultLogLevel = "info"
	DefaultUIMode   = "auto"
)

// Normalize trims values and fills defaults.
func Normalize(cfg *Config) {
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	if cfg.BackendURL == "" {
		cfg.BackendURL = flowclient.DefaultBaseURL
	}
	if cfg.Poll.StatusInterval == 0 {
		cfg.Poll.StatusInterval = dashboard.DefaultStatusInterval
	}
	if cfg.Poll.StepsInterval == 0 {
		cfg.Poll.StepsInterval = dashboard.DefaultStepsInterval
	}
	if cfg.Poll.LogsInterval == 0 {
		cfg.Poll.LogsInterval = dashboard.DefaultLogsInterval
	}

	types := make([]string, 0, len(cfg.Lists.Types))
	for _, listType := range cfg.Lists.Types {
		types = append(types, strings.TrimSpace(listType))
	}
	if len(types) == 0 {
		types = append(types, dashboard.DefaultListTypes...)
	}
	cfg.Lists.Types = types
	cfg.Lists.Default = strings.TrimSpace(cfg.Lists.Default)
	if cfg.Lists.Default == "" {
		if slices.Contains(types, DefaultListType) {
			cfg.Lists.Default = DefaultListType
		} else {
			cfg.Lists.Default = types[0]
		}
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	cfg.UI.Mode = strings.ToLower(strings.TrimSpace(cfg.UI.Mode))
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = DefaultUIMode
	}
}

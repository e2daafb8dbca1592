package config

import "time"

// Config is the dashboard client configuration.
type Config struct {
	BackendURL     string        `yaml:"backend_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Poll           PollConfig    `yaml:"poll"`
	Lists          ListsConfig   `yaml:"lists"`
	Log            LogConfig     `yaml:"log"`
	UI             UIConfig      `yaml:"ui"`
}

// PollConfig sets the cadence of each persistent channel.
type PollConfig struct {
	StatusInterval time.Duration `yaml:"status_interval"`
	StepsInterval  time.Duration `yaml:"steps_interval"`
	LogsInterval   time.Duration `yaml:"logs_interval"`
}

// ListsConfig names the selectable lists and the one shown first.
type ListsConfig struct {
	Types   []string `yaml:"types"`
	Default string   `yaml:"default"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// UIConfig configures the terminal view.
type UIConfig struct {
	Mode    string `yaml:"mode"`
	NoColor bool   `yaml:"no_color"`
}

// Default returns a normalized configuration with every default applied.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

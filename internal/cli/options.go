package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"bflowdash/internal/config"
	"bflowdash/pkg/flowclient"
)

// globalOptions are the flags every command accepts.
type globalOptions struct {
	configPath string
	backendURL string
	logLevel   string
	noColor    bool
}

// newFlagSet returns a flag set with the common flags registered.
func newFlagSet(cmd *Command, stderr io.Writer) (*pflag.FlagSet, *globalOptions) {
	fs := pflag.NewFlagSet(cmd.Name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &globalOptions{}
	fs.StringVar(&opts.configPath, "config", "", "Path to .bflowdash/config.yml")
	fs.StringVar(&opts.backendURL, "backend-url", "", "Backend base URL (overrides "+config.BackendURLEnv+")")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colors")
	return fs, opts
}

// loadConfig resolves the config and applies flag overrides.
func (o *globalOptions) loadConfig() (config.Config, error) {
	cfg, _, err := config.Resolve(o.configPath, "")
	if err != nil {
		return config.Config{}, err
	}
	if value := strings.TrimSpace(o.backendURL); value != "" {
		cfg.BackendURL = value
	}
	if value := strings.TrimSpace(o.logLevel); value != "" {
		cfg.Log.Level = value
	}
	if o.noColor {
		cfg.UI.NoColor = true
	}
	config.Normalize(&cfg)
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// colorDisabled reports whether output must stay uncolored.
func colorDisabled(cfg config.Config) bool {
	return cfg.UI.NoColor || termenv.EnvNoColor()
}

// applyColorProfile forces plain ASCII styling when colors are off.
func applyColorProfile(noColor bool) {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// newLogger builds the process logger. A log file gets JSON records; the
// live UI owns the terminal, so without a file it logs nothing.
func newLogger(cfg config.LogConfig, stderr io.Writer, live bool) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewJSONHandler(file, handlerOpts)), file.Close, nil
	}
	if live {
		return slog.New(slog.DiscardHandler), noopClose, nil
	}
	return slog.New(slog.NewTextHandler(stderr, handlerOpts)), noopClose, nil
}

func noopClose() error {
	return nil
}

// newClient builds the backend client for cfg.
func newClient(cfg config.Config, logger *slog.Logger) *flowclient.Client {
	return flowclient.NewWithTimeout(cfg.BackendURL, cfg.RequestTimeout).WithLogger(logger)
}

// session is what a command needs after flags and config are resolved.
type session struct {
	cfg    config.Config
	client *flowclient.Client
	logger *slog.Logger
	close  func() error
}

// setup parses flags, loads config, and builds the logger and client for a
// one-shot command.
func setup(fs *pflag.FlagSet, opts *globalOptions, args []string, stderr io.Writer) (*session, int) {
	if err := fs.Parse(args); err != nil {
		return nil, ExitUsage
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return nil, ExitError
	}
	logger, closeLog, err := newLogger(cfg.Log, stderr, false)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to set up logging: %v\n", err)
		return nil, ExitError
	}
	return &session{cfg: cfg, client: newClient(cfg, logger), logger: logger, close: closeLog}, ExitOK
}

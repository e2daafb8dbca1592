package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, root, body string) string {
	t.Helper()
	path := ConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.BackendURL != "http://localhost:8080" {
		t.Fatalf("unexpected backend url %q", cfg.BackendURL)
	}
	if cfg.Poll.StatusInterval != 5*time.Second || cfg.Poll.StepsInterval != 3*time.Second || cfg.Poll.LogsInterval != 3*time.Second {
		t.Fatalf("unexpected intervals %+v", cfg.Poll)
	}
	if cfg.Lists.Default != "domains" || len(cfg.Lists.Types) != 6 {
		t.Fatalf("unexpected lists %+v", cfg.Lists)
	}
	if cfg.UI.Mode != "auto" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected ui/log %+v %+v", cfg.UI, cfg.Log)
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadParsesDurationsAndTrimsURL(t *testing.T) {
	t.Setenv(BackendURLEnv, "")
	path := writeConfig(t, t.TempDir(), `
backend_url: "http://flow.internal:9000/"
request_timeout: 4s
poll:
  status_interval: 10s
lists:
  types: [domains, wildcards]
  default: wildcards
log:
  level: DEBUG
ui:
  mode: plain
  no_color: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://flow.internal:9000" {
		t.Fatalf("unexpected backend url %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout != 4*time.Second || cfg.Poll.StatusInterval != 10*time.Second || cfg.Poll.LogsInterval != 3*time.Second {
		t.Fatalf("unexpected durations %+v %+v", cfg.RequestTimeout, cfg.Poll)
	}
	if cfg.Lists.Default != "wildcards" || cfg.Log.Level != "debug" || cfg.UI.Mode != "plain" || !cfg.UI.NoColor {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestEnvOverridesBackendURL(t *testing.T) {
	t.Setenv(BackendURLEnv, "https://env.example/")
	path := writeConfig(t, t.TempDir(), "backend_url: http://file.example\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://env.example" {
		t.Fatalf("expected env override, got %q", cfg.BackendURL)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("backend: http://x\n"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
	_, err = Parse([]byte("backend_url: http://x\n---\nbackend_url: http://y\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multi-document error, got %v", err)
	}
}

func TestParseRejectsSecondDocumentWithOtherFields(t *testing.T) {
	_, err := Parse([]byte("backend_url: http://x\n---\nlog:\n  level: debug\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents are not supported") {
		t.Fatalf("expected multi-document error, got %v", err)
	}
	cfg, err := Parse([]byte("backend_url: http://x\n"))
	if err != nil || cfg.BackendURL != "http://x" {
		t.Fatalf("expected single document to parse, got %+v, %v", cfg, err)
	}
}

func TestValidateAggregatesIssues(t *testing.T) {
	cfg := Config{
		BackendURL:     "ftp://host",
		RequestTimeout: -time.Second,
		Lists:          ListsConfig{Types: []string{"domains", "domains", " "}, Default: "ips"},
		Log:            LogConfig{Level: "loud"},
		UI:             UIConfig{Mode: "fancy"},
		Poll:           PollConfig{StepsInterval: -time.Second},
	}
	Normalize(&cfg)
	err := Validate(&cfg)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, issue := range verr.Issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{"backend_url", "request_timeout", "poll.steps_interval", "lists.types[1]", "lists.types[2]", "lists.default", "log.level", "ui.mode"} {
		if !fields[want] {
			t.Fatalf("expected issue for %s, got %v", want, verr.Issues)
		}
	}
}

func TestFindConfigPathWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "backend_url: http://x\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveWithoutConfigUsesDefaults(t *testing.T) {
	t.Setenv(BackendURLEnv, "")
	cfg, path, err := Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if path != "" || cfg.BackendURL != "http://localhost:8080" {
		t.Fatalf("expected defaults, got %q %+v", path, cfg)
	}
	if _, err := FindConfigPath(t.TempDir()); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

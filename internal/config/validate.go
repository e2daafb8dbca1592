package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var (
	logLevels = []string{"debug", "info", "warn", "error"}
	uiModes   = []string{"auto", "live", "plain"}
)

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	validateBackendURL(cfg.BackendURL, collector.add)
	if cfg.RequestTimeout < 0 {
		collector.add("request_timeout", "must not be negative")
	}
	for field, interval := range map[string]time.Duration{
		"poll.status_interval": cfg.Poll.StatusInterval,
		"poll.steps_interval":  cfg.Poll.StepsInterval,
		"poll.logs_interval":   cfg.Poll.LogsInterval,
	} {
		if interval < 0 {
			collector.add(field, "must be positive")
		}
	}
	validateLists(cfg.Lists, collector.add)
	if !slices.Contains(logLevels, cfg.Log.Level) {
		collector.add("log.level", fmt.Sprintf("must be one of %s", strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(uiModes, cfg.UI.Mode) {
		collector.add("ui.mode", fmt.Sprintf("must be one of %s", strings.Join(uiModes, ", ")))
	}

	collector.sort()
	return collector.result()
}

// validateBackendURL requires an absolute http(s) URL.
func validateBackendURL(raw string, add issueAdder) {
	parsed, err := url.Parse(raw)
	if err != nil {
		add("backend_url", fmt.Sprintf("invalid URL: %v", err))
		return
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		add("backend_url", "must use http or https")
		return
	}
	if parsed.Host == "" {
		add("backend_url", "must include a host")
	}
}

// validateLists checks list names and the default selection.
func validateLists(lists ListsConfig, add issueAdder) {
	seen := map[string]bool{}
	for i, listType := range lists.Types {
		field := fmt.Sprintf("lists.types[%d]", i)
		if listType == "" {
			add(field, "is required")
			continue
		}
		if seen[listType] {
			add(field, fmt.Sprintf("duplicate list type %q", listType))
		}
		seen[listType] = true
	}
	if !seen[lists.Default] {
		add("lists.default", fmt.Sprintf("%q is not one of lists.types", lists.Default))
	}
}

// issueAdder adds a validation issue to a shared collector.
type issueAdder func(field, message string)

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

// add records a new validation issue.
func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// sort orders issues by field for stable output.
func (c *issueCollector) sort() {
	slices.SortStableFunc(c.issues, func(a, b Issue) int {
		return strings.Compare(a.Field, b.Field)
	})
}

// result returns a ValidationError when issues are present.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

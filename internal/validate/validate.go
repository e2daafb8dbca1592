package validate

import (
	"net/url"
	"strings"
)

// WildcardsListType names the list whose entries are glob patterns, not URLs.
const WildcardsListType = "wildcards"

// Code identifies why an input was rejected.
type Code string

const (
	// CodeEmptyEntry marks an entry that is empty after trimming.
	CodeEmptyEntry Code = "EmptyEntry"
	// CodeInvalidURL marks an entry that must be a URL but is not one.
	CodeInvalidURL Code = "InvalidUrl"
)

// Error reports a rejected user input. Its message is shown to the user as-is.
type Error struct {
	Code    Code
	Message string
}

// Error returns the user facing reason.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Is matches validation errors by code so errors.Is works against the sentinels.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

var (
	// ErrEmptyEntry is returned for empty or whitespace-only entries.
	ErrEmptyEntry = &Error{Code: CodeEmptyEntry, Message: "Entry cannot be empty"}
	// ErrInvalidURL is returned when a non-wildcards entry is not a URL.
	ErrInvalidURL = &Error{Code: CodeInvalidURL, Message: "Please enter a valid URL for this list"}
)

// IsValidURL reports whether s parses as an absolute URI with a scheme and
// an authority, opaque part or path.
func IsValidURL(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	if parsed.Scheme == "" {
		return false
	}
	return parsed.Host != "" || parsed.Opaque != "" || parsed.Path != ""
}

// ListEntry trims raw and checks it is acceptable for listType.
func ListEntry(listType, raw string) (string, error) {
	entry := strings.TrimSpace(raw)
	if entry == "" {
		return "", ErrEmptyEntry
	}
	if listType != WildcardsListType && !IsValidURL(entry) {
		return "", ErrInvalidURL
	}
	return entry, nil
}

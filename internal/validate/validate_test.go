package validate

import (
	"errors"
	"testing"
)

func TestIsValidURL(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"https://example.com", true},
		{"http://localhost:8080/path?q=1", true},
		{"mailto:security@example.com", true},
		{"file:///etc/hosts", true},
		{"", false},
		{"example.com", false},
		{"not a url", false},
		{"http://bad host", false},
		{"://missing-scheme", false},
		{" https://example.com", false},
	}
	for _, tc := range cases {
		if got := IsValidURL(tc.input); got != tc.want {
			t.Fatalf("IsValidURL(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestListEntryRejectsBlankForEveryType(t *testing.T) {
	for _, listType := range []string{"domains", "wildcards", "ips", "organizations"} {
		for _, raw := range []string{"", " ", "\t\n", "   \r\n  "} {
			_, err := ListEntry(listType, raw)
			if !errors.Is(err, ErrEmptyEntry) {
				t.Fatalf("ListEntry(%q, %q) error = %v, want empty entry", listType, raw, err)
			}
		}
	}
}

func TestListEntryURLTypes(t *testing.T) {
	entry, err := ListEntry("domains", "  https://target.example.com  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != "https://target.example.com" {
		t.Fatalf("expected trimmed entry, got %q", entry)
	}

	_, err = ListEntry("domains", "target.example.com")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected invalid url error, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) || verr.Code != CodeInvalidURL {
		t.Fatalf("expected *Error with code %s, got %#v", CodeInvalidURL, err)
	}
	if err.Error() != "Please enter a valid URL for this list" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestListEntryWildcardsSkipURLCheck(t *testing.T) {
	for _, raw := range []string{"*.example.com", "*", "not a url at all", " *.corp.example "} {
		entry, err := ListEntry(WildcardsListType, raw)
		if err != nil {
			t.Fatalf("ListEntry(wildcards, %q) unexpected error: %v", raw, err)
		}
		if entry == "" || entry[0] == ' ' || entry[len(entry)-1] == ' ' {
			t.Fatalf("expected trimmed entry, got %q", entry)
		}
	}
}

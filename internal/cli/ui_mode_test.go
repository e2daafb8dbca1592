package cli

import (
	"io"
	"testing"
)

func TestChooseUI(t *testing.T) {
	cases := []struct {
		name       string
		flagMode   string
		configMode string
		verbose    bool
		isTTY      bool
		wantMode   string
		wantLive   bool
		wantNotice bool
		wantErr    bool
	}{
		{name: "defaults to auto on a tty", isTTY: true, wantMode: "auto", wantLive: true},
		{name: "auto without tty", isTTY: false, wantMode: "auto"},
		{name: "config mode applies", configMode: "plain", isTTY: true, wantMode: "plain"},
		{name: "flag beats config", flagMode: "live", configMode: "plain", isTTY: true, wantMode: "live", wantLive: true},
		{name: "flag is case insensitive", flagMode: " PLAIN ", isTTY: true, wantMode: "plain"},
		{name: "verbose forces plain", flagMode: "auto", verbose: true, isTTY: true, wantMode: "auto"},
		{name: "verbose with explicit live explains", flagMode: "live", verbose: true, isTTY: true, wantMode: "live", wantNotice: true},
		{name: "live without tty explains", configMode: "live", isTTY: false, wantMode: "live", wantNotice: true},
		{name: "invalid flag", flagMode: "fancy", isTTY: true, wantErr: true},
		{name: "invalid mode rejected even when verbose", configMode: "fancy", verbose: true, wantErr: true},
	}

	original := isTerminal
	t.Cleanup(func() { isTerminal = original })

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isTerminal = func(io.Writer) bool { return tc.isTTY }
			choice, err := chooseUI(tc.flagMode, tc.configMode, tc.verbose, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if choice.mode != tc.wantMode || choice.live != tc.wantLive {
				t.Fatalf("expected mode=%s live=%v, got %+v", tc.wantMode, tc.wantLive, choice)
			}
			if tc.wantNotice != (choice.notice != "") {
				t.Fatalf("unexpected notice %q", choice.notice)
			}
		})
	}
}

func TestStdoutIsTerminalRejectsPlainWriters(t *testing.T) {
	if stdoutIsTerminal(io.Discard) {
		t.Fatalf("expected io.Discard not to be a terminal")
	}
	if stdoutIsTerminal(nil) {
		t.Fatalf("expected nil writer not to be a terminal")
	}
}

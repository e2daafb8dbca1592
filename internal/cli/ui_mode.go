package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	uiAuto  = "auto"
	uiLive  = "live"
	uiPlain = "plain"
)

// uiChoice is how watch renders the dashboard.
type uiChoice struct {
	mode   string
	live   bool
	notice string
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = stdoutIsTerminal

// chooseUI picks the watch renderer. The --ui flag wins over ui.mode from the
// config file, and an empty mode means auto. --verbose streams debug logs to
// stderr underneath the dashboard, so it always selects plain output.
func chooseUI(flagMode, configMode string, verbose bool, stdout io.Writer) (uiChoice, error) {
	mode := strings.ToLower(strings.TrimSpace(flagMode))
	if mode == "" {
		mode = strings.ToLower(strings.TrimSpace(configMode))
	}
	if mode == "" {
		mode = uiAuto
	}
	if mode != uiAuto && mode != uiLive && mode != uiPlain {
		return uiChoice{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}

	choice := uiChoice{mode: mode}
	switch {
	case mode == uiPlain:
	case verbose:
		if mode == uiLive {
			choice.notice = "--verbose writes logs to stderr; showing the dashboard as plain output."
		}
	case isTerminal(stdout):
		choice.live = true
	case mode == uiLive:
		choice.notice = "Live dashboard needs a terminal on stdout; showing plain output."
	}
	return choice, nil
}

func stdoutIsTerminal(stdout io.Writer) bool {
	switch out := stdout.(type) {
	case *os.File:
		return out != nil && term.IsTerminal(int(out.Fd()))
	case interface{ Fd() uintptr }:
		return term.IsTerminal(int(out.Fd()))
	default:
		return false
	}
}

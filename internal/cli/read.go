package cli

import (
	"context"
	"fmt"
	"io"

	"bflowdash/internal/render"
	"bflowdash/pkg/flowclient"
)

func runStatus(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs, opts := newFlagSet(cmd, stderr)
		sess, code := setup(fs, opts, args, stderr)
		if code != ExitOK {
			return code
		}
		defer sess.close()

		ctx := context.Background()
		status, err := sess.client.Status(ctx)
		if err != nil {
			return fetchFailed(stderr, "status", err)
		}
		steps, err := sess.client.Steps(ctx)
		if err != nil {
			return fetchFailed(stderr, "steps", err)
		}
		fmt.Fprintln(stdout, render.Status(status))
		for _, line := range render.Steps(steps.Steps) {
			fmt.Fprintln(stdout, line)
		}
		return ExitOK
	}
}

func runLogs(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs, opts := newFlagSet(cmd, stderr)
		sess, code := setup(fs, opts, args, stderr)
		if code != ExitOK {
			return code
		}
		defer sess.close()

		tail, err := sess.client.Logs(context.Background())
		if err != nil {
			return fetchFailed(stderr, "logs", err)
		}
		fmt.Fprintln(stdout, render.Logs(tail.Logs))
		return ExitOK
	}
}

func runList(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs, opts := newFlagSet(cmd, stderr)
		listType := fs.String("type", "", "List type (defaults to lists.default)")
		sess, code := setup(fs, opts, args, stderr)
		if code != ExitOK {
			return code
		}
		defer sess.close()

		if *listType == "" {
			*listType = sess.cfg.Lists.Default
		}
		entries, err := sess.client.List(context.Background(), *listType)
		if err != nil {
			return fetchFailed(stderr, "list", err)
		}
		fmt.Fprintln(stdout, render.Entries(entries.Entries))
		return ExitOK
	}
}

// fetchFailed reports a read failure the way the dashboard annotates a pane.
func fetchFailed(stderr io.Writer, pane string, err error) int {
	fmt.Fprintf(stderr, "%s error: %s\n", pane, flowclient.Reason(err))
	return ExitError
}

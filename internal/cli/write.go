package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bflowdash/internal/config"
	"bflowdash/internal/dispatch"
	"bflowdash/internal/validate"
	"bflowdash/pkg/flowclient"
)

func runUpload(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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

		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "upload needs exactly one file")
			return ExitUsage
		}
		msg, err := dispatcher(sess).UploadFile(context.Background(), listTypeOrDefault(*listType, sess.cfg), fs.Arg(0))
		return report(stdout, stderr, msg, err)
	}
}

func runAppend(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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

		msg, err := dispatcher(sess).AppendListEntry(context.Background(), listTypeOrDefault(*listType, sess.cfg), strings.Join(fs.Args(), " "))
		var verr *validate.Error
		if errors.As(err, &verr) {
			fmt.Fprintln(stderr, msg)
			return ExitUsage
		}
		return report(stdout, stderr, msg, err)
	}
}

func runFlow(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs, opts := newFlagSet(cmd, stderr)
		org := fs.String("org", "", "Organization to scan")
		orgList := fs.String("org-list", "", "Organization list to scan")
		sess, code := setup(fs, opts, args, stderr)
		if code != ExitOK {
			return code
		}
		defer sess.close()

		msg, err := dispatcher(sess).RunFlow(context.Background(), flowclient.RunRequest{
			Organization: strings.TrimSpace(*org),
			OrgList:      strings.TrimSpace(*orgList),
		})
		return report(stdout, stderr, msg, err)
	}
}

// dispatcher builds a command dispatcher with no views to refresh.
func dispatcher(sess *session) *dispatch.Dispatcher {
	return dispatch.New(sess.client, nil, nil, sess.logger)
}

// listTypeOrDefault falls back to the configured default list.
func listTypeOrDefault(listType string, cfg config.Config) string {
	if listType = strings.TrimSpace(listType); listType != "" {
		return listType
	}
	return cfg.Lists.Default
}

// report prints the final command status line.
func report(stdout, stderr io.Writer, msg string, err error) int {
	if err != nil {
		fmt.Fprintln(stderr, msg)
		return ExitError
	}
	fmt.Fprintln(stdout, msg)
	return ExitOK
}

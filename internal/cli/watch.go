package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bflowdash/internal/dashboard"
	"bflowdash/internal/ui/live"
	"bflowdash/internal/ui/plain"
	"bflowdash/pkg/flowclient"
)

// watchContext is cancelled when the dashboard should shut down.
var watchContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runWatch(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs, opts := newFlagSet(cmd, stderr)
		uiMode := fs.String("ui", "", "UI mode: auto|live|plain")
		listType := fs.String("list-type", "", "List shown first")
		org := fs.String("org", "", "Organization sent with run requests")
		orgList := fs.String("org-list", "", "Organization list sent with run requests")
		verbose := fs.Bool("verbose", false, "Stream debug logs to stderr (disables the live UI)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *verbose && opts.logLevel == "" {
			opts.logLevel = "debug"
		}
		cfg, err := opts.loadConfig()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		ui, err := chooseUI(*uiMode, cfg.UI.Mode, *verbose, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if ui.notice != "" {
			fmt.Fprintln(stderr, ui.notice)
		}

		logger, closeLog, err := newLogger(cfg.Log, stderr, ui.live)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to set up logging: %v\n", err)
			return ExitError
		}
		defer closeLog()
		noColor := colorDisabled(cfg)
		applyColorProfile(noColor)

		defaultList := cfg.Lists.Default
		if value := strings.TrimSpace(*listType); value != "" {
			defaultList = value
		}

		var (
			controller *live.Controller
			printer    *plain.Printer
			sink       dashboard.Sink
		)
		if ui.live {
			controller = live.NewController()
			sink = controller
		} else {
			printer = plain.New(stdout)
			sink = printer
		}

		client := newClient(cfg, logger)
		board, err := dashboard.New(client, sink, dashboard.Options{
			StatusInterval:  cfg.Poll.StatusInterval,
			StepsInterval:   cfg.Poll.StepsInterval,
			LogsInterval:    cfg.Poll.LogsInterval,
			ListTypes:       cfg.Lists.Types,
			DefaultListType: defaultList,
			Logger:          logger,
		})
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}

		ctx, cancel := watchContext()
		defer cancel()

		var uiDone <-chan struct{}
		if controller != nil {
			controller.Start(stdout, live.DashboardActions{
				Dashboard: board,
				Run: flowclient.RunRequest{
					Organization: strings.TrimSpace(*org),
					OrgList:      strings.TrimSpace(*orgList),
				},
			}, live.Options{
				NoColor:  noColor,
				BaseURL:  client.BaseURL(),
				ListType: defaultList,
				Context:  ctx,
			})
			uiDone = controller.Done()
		}

		logger.Info("dashboard starting", "backend_url", client.BaseURL(), "ui_live", ui.live)
		if err := board.Start(ctx); err != nil {
			fmt.Fprintf(stderr, "Failed to start dashboard: %v\n", err)
			controller.Close()
			return ExitError
		}

		select {
		case <-ctx.Done():
		case <-uiDone:
		}
		if err := board.Stop(); err != nil {
			logger.Warn("dashboard stopped with error", "error", err)
		}
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if printer != nil {
			printer.Close()
		}
		logger.Info("dashboard stopped")
		return ExitOK
	}
}

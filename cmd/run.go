package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coursewatch/internal/clock/system"
	"coursewatch/internal/extract"
	collyfetch "coursewatch/internal/fetch/colly"
	"coursewatch/internal/logging"
	githubnotify "coursewatch/internal/notify/github"
	"coursewatch/internal/notify/memory"
	"coursewatch/internal/runner"
	filestate "coursewatch/internal/state/file"
	"coursewatch/internal/watch"
	"coursewatch/internal/watchlist"
)

// newRunCmd creates the 'run' subcommand, which performs a single
// polling pass over the watch list and exits.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Performs a single polling pass over the watch list",
		Long: `Fetches every enabled watch once, extracts the availability count,
raises alerts for full-to-available transitions and persists the updated
state. Per-watch fetch, extract and delivery failures are reported but do
not fail the run; only a setup-level error (unreadable configuration,
watchlist or state file) produces a failure exit status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPass(cmd.Context())
		},
	}
}

func runPass(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	var (
		notifier watch.Notifier
		recorder *memory.Notifier
	)
	if cfg.GitHub.Repo == "" {
		logger.Warn("github.repo not configured; alerts will be logged but not delivered")
		recorder = memory.New()
		notifier = recorder
	} else {
		notifier = githubnotify.New(githubnotify.Config{
			Repo:       cfg.GitHub.Repo,
			Token:      cfg.GitHub.Token,
			BaseURL:    cfg.GitHub.APIBaseURL,
			IssueLabel: cfg.GitHub.IssueLabel,
			Timeout:    cfg.FetchTimeout(),
		})
	}

	r := runner.New(
		watchlist.New(cfg.WatchlistPath),
		filestate.New(cfg.StatePath),
		collyfetch.New(collyfetch.Config{
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.FetchTimeout(),
		}),
		extract.New(),
		notifier,
		system.New(),
		runner.Config{Delay: cfg.InterWatchDelay()},
		logger,
	)

	report, err := r.Run(ctx)
	if err != nil {
		return err
	}

	if recorder != nil {
		for _, alert := range recorder.Alerts() {
			logger.Info("would have notified",
				zap.String("label", alert.Label),
				zap.String("url", alert.URL),
				zap.Int("value", alert.Value),
			)
		}
	}

	renderReport(report)
	return nil
}

func renderReport(report watch.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Watch", "Outcome", "Value", "Reason"})
	for _, row := range report.Rows {
		value := ""
		if row.Value != nil {
			value = fmt.Sprintf("%d", *row.Value)
		}
		t.AppendRow(table.Row{row.Label, row.Outcome, value, row.Reason})
	}
	t.Render()

	c := report.Count()
	fmt.Printf("run %s: %d ok, %d notified, %d skipped, %d errors\n",
		report.RunID, c.OK, c.Notified, c.Skipped, c.Errors)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	filestate "coursewatch/internal/state/file"
	"coursewatch/internal/watch"
	"coursewatch/internal/watchlist"
)

func newAddCmd() *cobra.Command {
	var (
		label      string
		keyword    string
		mode       string
		ignoreCase bool
	)
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Adds a watch to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w := watch.Config{
				Label:      label,
				URL:        args[0],
				Keyword:    keyword,
				Enabled:    true,
				Mode:       watch.Mode(mode),
				IgnoreCase: ignoreCase,
			}
			if w.Label == "" {
				w.Label = args[0]
			}
			if err := watchlist.New(cfg.WatchlistPath).Add(w); err != nil {
				return err
			}
			fmt.Printf("added watch %q\n", w.Label)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "unique watch label (defaults to the url)")
	cmd.Flags().StringVar(&keyword, "keyword", "Availability no", "keyword marking the availability count")
	cmd.Flags().StringVar(&mode, "mode", string(watch.ModeOnce), "once or repeat")
	cmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "match the keyword case-insensitively")
	return cmd
}

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <label>",
		Short: "Re-arms a watch (e.g. after a mode=once alert fired)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return setEnabled(args[0], true)
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <label>",
		Short: "Disables a watch without removing it or its state",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return setEnabled(args[0], false)
		},
	}
}

func setEnabled(label string, enabled bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := watchlist.New(cfg.WatchlistPath).SetEnabled(label, enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("watch %q %s\n", label, state)
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Shows all watches with their last known state",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			watches, err := watchlist.New(cfg.WatchlistPath).Load()
			if err != nil {
				return err
			}
			states := filestate.New(cfg.StatePath)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Watch", "Enabled", "Mode", "Last Value", "Last Notified", "Last Checked", "Last Error"})
			for _, w := range watches {
				st, _, err := states.Get(w.Label)
				if err != nil {
					return err
				}
				checked := ""
				if !st.LastCheckedAt.IsZero() {
					checked = st.LastCheckedAt.Format("2006-01-02 15:04 MST")
				}
				t.AppendRow(table.Row{
					w.Label, w.Enabled, w.Mode,
					formatValue(st.LastValue), formatValue(st.LastNotifiedValue),
					checked, st.LastError,
				})
			}
			t.Render()
			return nil
		},
	}
}

func formatValue(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pomo/internal/bootstrap"
	heatmap "pomo/internal/modules/heatmap/domain"
	statsdomain "pomo/internal/modules/stats/domain"
	"pomo/internal/platform/clock"
	"pomo/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "pomo",
		Short:         "Pomodoro session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newSyncCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pomo"
	}
	return filepath.Join(home, ".pomo")
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the pomo terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Record and inspect sessions"}

	var date string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record one completed session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Record(context.Background(), date)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s: %d sessions\n", out.Date, out.Count)
			if !out.Saved {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: local cache write failed, session kept in memory only")
			}
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "session date YYYY-MM-DD (defaults to today)")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded days, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			days, err := app.StatsCLI.ListDays(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
				return nil
			}
			for _, day := range days {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", day.Date, day.Count)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 30, "maximum days to show")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Back the cache up, then clear all local history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Reset(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dropped %d days\n", out.Dropped)
			if out.BackupPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "backup: %s\n", out.BackupPath)
			}
			return nil
		},
	}

	session.AddCommand(add, list, reset)
	return session
}

func newStatsCmd(dataDir *string) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "Streak and heatmap projections"}
	stats.AddCommand(newStreakCmd(dataDir), newHeatmapCmd(dataDir))
	return stats
}

func newStreakCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show streak and totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			source := "local"
			if out.FromProvider {
				source = "provider"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "streak: %d days\n", out.Streak)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %d sessions over %d days\n", out.Total, len(out.Days))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "source: %s\n", source)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "remote: linked=%t\n", out.RemoteLinked)
			return nil
		},
	}
}

func newHeatmapCmd(dataDir *string) *cobra.Command {
	var format, outPath string

	heatmapCmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render the 52-week session heatmap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			history := make(statsdomain.History, 0, len(out.Days))
			for _, day := range out.Days {
				history = append(history, statsdomain.Record{Date: day.Date, Count: day.Count})
			}
			days := heatmap.BuildDays(history, out.Buckets, clock.SystemClock{}.Now())

			switch format {
			case "text":
				_, _ = fmt.Fprint(cmd.OutOrStdout(), renderTextHeatmap(days))
				return nil
			case "svg":
				dark := app.Config.DarkScheme()
				palette := heatmap.PaletteFor(dark)
				opts := heatmap.DefaultOptions(palette)
				grid := heatmap.Layout(days, opts)
				background := "#ffffff"
				if dark {
					background = "#0d1117"
				}
				document := heatmap.SVG(grid, opts, background)
				if outPath == "" {
					_, _ = fmt.Fprint(cmd.OutOrStdout(), document)
					return nil
				}
				if err := os.WriteFile(outPath, []byte(document), 0o644); err != nil {
					return fmt.Errorf("write svg: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
				return nil
			default:
				return fmt.Errorf("unknown format %q, want text or svg", format)
			}
		},
	}
	heatmapCmd.Flags().StringVar(&format, "format", "text", "output format: text|svg")
	heatmapCmd.Flags().StringVar(&outPath, "out", "", "write svg output to a file")
	return heatmapCmd
}

// renderTextHeatmap draws the grid with intensity runes, one week per
// column, plus month labels.
func renderTextHeatmap(days []heatmap.Day) string {
	runes := [statsdomain.MaxBucket + 1]rune{'·', '░', '▒', '▓', '█'}
	columns := (len(days) + heatmap.Rows - 1) / heatmap.Rows

	grid := heatmap.Layout(days, heatmap.DefaultOptions(heatmap.DarkPalette))
	label := make([]rune, columns*2)
	for i := range label {
		label[i] = ' '
	}
	for _, l := range grid.Labels {
		at := l.Column * 2
		for i, r := range l.Text {
			if at+i < len(label) {
				label[at+i] = r
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(string(label) + "\n")
	for r := 0; r < heatmap.Rows; r++ {
		for c := 0; c < columns; c++ {
			i := c*heatmap.Rows + r
			if i >= len(days) {
				sb.WriteString("  ")
				continue
			}
			bucket := days[i].Bucket
			if bucket < 0 || bucket > statsdomain.MaxBucket {
				bucket = 0
			}
			sb.WriteRune(runes[bucket])
			sb.WriteRune(' ')
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func newSyncCmd(dataDir *string) *cobra.Command {
	sync := &cobra.Command{Use: "sync", Short: "Remote gist synchronization"}

	sync.AddCommand(&cobra.Command{
		Use:   "connect",
		Short: "Create the remote document and link this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Connect(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "linked to %s (%d days uploaded)\n", out.RemoteLink, out.MergedDays)
			return nil
		},
	})

	sync.AddCommand(&cobra.Command{
		Use:   "disconnect",
		Short: "Forget the remote link, keep local history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.StatsCLI.Disconnect(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "disconnected")
			return nil
		},
	})

	sync.AddCommand(&cobra.Command{
		Use:   "now",
		Short: "Reconcile local history with the remote document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Sync(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced %s: remote=%d merged=%d changed=%t\n",
				out.RemoteLink, out.RemoteDays, out.MergedDays, out.Changed)
			return nil
		},
	})

	sync.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show sync configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.SyncStatus(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "linked=%t token=%t\n", out.Linked, out.HasToken)
			if out.RemoteLink != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "remote: %s\n", out.RemoteLink)
			}
			return nil
		},
	})

	return sync
}

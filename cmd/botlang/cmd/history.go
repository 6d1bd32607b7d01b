package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/msto63/botlang/foundation/botlang/interpreter"
	"github.com/msto63/botlang/internal/journal"
)

type historyOptions struct {
	filename   string
	action     string
	errorsOnly bool
	since      time.Duration
	limit      int
	stats      bool
	prune      time.Duration
	format     string
}

func (a *app) historyCommand() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run journal",
		Long: `Lists recorded runs, newest first, from the journal configured
under [journal] path.

Examples:
  botlang history --limit 10
  botlang history --errors --since 1h
  botlang history --stats
  botlang history --prune 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.history(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.filename, "file", "", "only runs of this script")
	cmd.Flags().StringVar(&opts.action, "action", "", "only runs that decided this action")
	cmd.Flags().BoolVar(&opts.errorsOnly, "errors", false, "only failed runs")
	cmd.Flags().DurationVar(&opts.since, "since", 0, "only runs younger than this")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "maximum number of runs")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print journal statistics")
	cmd.Flags().DurationVar(&opts.prune, "prune", 0, "delete runs older than this")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format: table, json or yaml")
	return cmd
}

func (a *app) history(cmd *cobra.Command, opts *historyOptions) error {
	store, err := journal.Open(a.cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.prune > 0 {
		removed, err := store.Prune(ctx, opts.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pruned %d run(s) older than %s\n", removed, opts.prune)
		return nil
	}

	if opts.stats {
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		if opts.format != "table" {
			return encode(out, opts.format, stats)
		}
		printStats(out, stats)
		return nil
	}

	filter := journal.Filter{
		Filename:   opts.filename,
		Action:     opts.action,
		ErrorsOnly: opts.errorsOnly,
		Limit:      opts.limit,
	}
	if action, ok := interpreter.LookupAction(opts.action); ok {
		filter.Action = action.String()
	}
	if opts.since > 0 {
		filter.Since = time.Now().Add(-opts.since)
	}

	runs, err := store.Query(ctx, filter)
	if err != nil {
		return err
	}
	if opts.format != "table" {
		return encode(out, opts.format, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no runs recorded"))
		return nil
	}
	fmt.Fprintln(out, runTable(runs))
	return nil
}

func runTable(runs []*journal.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		outcome := run.Action
		if run.Failed() {
			outcome = run.ErrorKind
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Filename,
			outcome,
			run.Duration.Round(time.Microsecond).String(),
			run.ID[:8],
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("STARTED", "SCRIPT", "OUTCOME", "DURATION", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

func printStats(out io.Writer, stats *journal.Stats) {
	fmt.Fprintln(out, headerStyle.Render("Run journal"))
	fmt.Fprintf(out, "  runs:     %d (%d failed)\n", stats.Total, stats.Failed)
	fmt.Fprintf(out, "  average:  %s\n", stats.AverageDuration.Round(time.Microsecond))
	if !stats.LastRun.IsZero() {
		fmt.Fprintf(out, "  last run: %s\n", stats.LastRun.Local().Format(time.RFC3339))
	}
	for _, counts := range []map[string]int64{stats.ByAction, stats.ByErrorKind} {
		for _, name := range slices.Sorted(maps.Keys(counts)) {
			fmt.Fprintf(out, "  %-14s %d\n", name, counts[name])
		}
	}
}

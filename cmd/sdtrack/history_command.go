package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sdtrack/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List previous recording runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintf(out, "No runs recorded in %s\n", store.Path())
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.RunID,
						formatTime(run.StartedAt),
						runStatus(run),
						strconv.Itoa(run.Tracks),
						strconv.Itoa(run.Skipped),
						run.Source,
						run.Target,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run ID", "Started", "Status", "Tracks", "Skipped", "Source", "Target"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the tracks written by a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := strings.TrimSpace(args[0])
			return withHistoryStore(ctx, func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", runID)
				}
				tracks, err := store.Tracks(cmd.Context(), runID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderKeyValues([][2]string{
					{"Run ID", run.RunID},
					{"Status", runStatus(*run)},
					{"Source", run.Source},
					{"Target", run.Target},
					{"Started", formatTime(run.StartedAt)},
					{"Finished", formatTime(run.FinishedAt)},
					{"Error", run.Error},
				}))
				if len(tracks) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					rows = append(rows, []string{
						strconv.Itoa(track.Index),
						track.TargetName,
						track.Identifier,
						track.Title,
						track.SourcePath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Slot", "Identifier", "Title", "Source"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func runStatus(run history.Run) string {
	if run.DryRun {
		return run.Status + " (dry run)"
	}
	return run.Status
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sdtrack/internal/recorder"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var noClear bool
	var dryRun bool
	var noTags bool

	cmd := &cobra.Command{
		Use:   "record <source> <target>",
		Short: "Copy a folder tree onto a card as numbered tracks",
		Long: "Empty the target, copy every .mp3 and .wav below source as 0001.EXT, 0002.EXT, ...\n" +
			"in sorted depth-first order, and write a #define reference header next to them.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source, _ := filepath.Abs(args[0])
			dest, _ := filepath.Abs(args[1])
			fmt.Fprintf(out, "Source: %s\n", source)
			fmt.Fprintf(out, "Target: %s\n", dest)

			progress := newConsoleProgress(out)
			rec := recorder.New(cfg, logger, progress)
			result, runErr := rec.Run(cmd.Context(), recorder.Request{
				Source:   source,
				Target:   dest,
				Clear:    cfg.Target.Clear && !noClear,
				DryRun:   dryRun,
				ReadTags: cfg.History.Enabled && !noTags,
			})
			progress.Finish()
			if runErr != nil {
				if result != nil && len(result.Tracks) > 0 {
					fmt.Fprintf(out, "Stopped after %d of %d tracks\n", len(result.Tracks), result.Eligible)
				}
				return runErr
			}

			printRecordSummary(out, result, dryRun)
			fmt.Fprintln(out, "DONE")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Keep existing target contents instead of emptying the target first")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the numbering without writing to the target")
	cmd.Flags().BoolVar(&noTags, "no-tags", false, "Skip reading embedded titles for the run history")
	return cmd
}

func printRecordSummary(out io.Writer, result *recorder.Result, dryRun bool) {
	reference := result.ReferencePath
	if dryRun {
		reference = "(dry run)"
	}
	fmt.Fprintln(out, renderKeyValues([][2]string{
		{"Run ID", result.RunID},
		{"Eligible", strconv.Itoa(result.Eligible)},
		{"Copied", strconv.Itoa(len(result.Tracks))},
		{"Skipped", strconv.Itoa(len(result.Skipped))},
		{"Cleared", strconv.Itoa(result.Cleared)},
		{"Dry run", yesNo(dryRun)},
		{"Reference", reference},
		{"Duration", result.Duration.Round(time.Millisecond).String()},
	}))
}

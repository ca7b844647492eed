package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"sdtrack/internal/recorder"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var withTags bool
	var header bool

	cmd := &cobra.Command{
		Use:   "plan <source>",
		Short: "Preview slot numbers and identifiers without touching a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			result, err := recorder.New(cfg, logger, nil).Run(cmd.Context(), recorder.Request{
				Source:    args[0],
				DryRun:    true,
				ReadTags:  withTags,
				NoHistory: true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if header {
				_, err := result.Table.WriteTo(out)
				return err
			}
			if len(result.Tracks) == 0 {
				fmt.Fprintln(out, "No .mp3 or .wav files found")
				return nil
			}

			headers := []string{"#", "Slot", "Identifier", "Source"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}
			if withTags {
				headers = append(headers, "Title")
				aligns = append(aligns, alignLeft)
			}
			rows := make([][]string, 0, len(result.Tracks))
			for _, track := range result.Tracks {
				rel, relErr := filepath.Rel(result.Source, track.Source)
				if relErr != nil {
					rel = track.Source
				}
				row := []string{strconv.Itoa(track.Index), track.Target, track.Identifier, rel}
				if withTags {
					row = append(row, track.Tags.Label())
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "%d tracks, %d skipped\n", len(result.Tracks), len(result.Skipped))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTags, "tags", false, "Show embedded artist and title for each track")
	cmd.Flags().BoolVar(&header, "header", false, "Print the reference header instead of a table")
	return cmd
}

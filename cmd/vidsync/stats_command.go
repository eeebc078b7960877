package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidsync/internal/catalog"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals and translation status breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx := cmd.Context()
			authors, err := store.CountAuthors(runCtx)
			if err != nil {
				return err
			}
			videos, err := store.CountVideos(runCtx)
			if err != nil {
				return err
			}
			counts, err := store.StatusCounts(runCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, countTable("Metric", "Count", [][2]string{
				{"Authors", fmt.Sprintf("%d", authors)},
				{"Videos", fmt.Sprintf("%d", videos)},
			}))

			title := cases.Title(language.English)
			rows := make([][3]string, 0, len(catalog.AllStatuses()))
			for _, status := range catalog.AllStatuses() {
				rows = append(rows, [3]string{
					fmt.Sprintf("%d", int(status)),
					title.String(status.Label()),
					fmt.Sprintf("%d", counts[status]),
				})
			}
			fmt.Fprintln(out, statusBreakdownTable(rows))
			return nil
		},
	}
}

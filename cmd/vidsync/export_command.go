package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"vidsync/internal/catalog"
)

var exportHeader = []string{
	"video_id", "author", "author_url", "original_title", "original_url",
	"date", "repost_title", "repost_url", "translation_status", "comment",
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export [out.csv]",
		Short: "Export the catalog as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && outputPath == "" {
				outputPath = args[0]
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.ExportRows(cmd.Context())
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()
				out = file
			}

			if err := writeExport(out, rows); err != nil {
				return err
			}
			if outputPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(rows), outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write CSV to a file instead of stdout")
	return cmd
}

func writeExport(out io.Writer, rows []catalog.ExportRow) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.VideoID, 10),
			row.AuthorName,
			row.AuthorURL,
			row.OriginalTitle,
			row.OriginalURL,
			row.Date,
			row.RepostTitle,
			row.RepostURL,
			strconv.Itoa(int(row.TranslationStatus)),
			row.VideoComment,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

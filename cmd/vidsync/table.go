package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"vidsync/internal/catalog"
	"vidsync/internal/reconcile"
)

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// countTable renders name/count pairs with the count column right-aligned.
// Both the import summary and the catalog totals use this shape.
func countTable(nameHeader, countHeader string, rows [][2]string) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{nameHeader, countHeader})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// statusBreakdownTable renders the per-translation-status video counts.
func statusBreakdownTable(rows [][3]string) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Status", "Meaning", "Videos"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1], row[2]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// conflictTable renders the existing record and the candidate side by
// side for the duplicate prompt. Empty fields show as "-" and statuses
// carry their label.
func conflictTable(conflict reconcile.Conflict) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Field", "Existing", "New"})

	appendPair := func(field, existing, candidate string) {
		tw.AppendRow(table.Row{field, orNone(existing), orNone(candidate)})
	}
	appendPair("Author", conflict.ExistingAuthor, conflict.CandidateAuthor)
	appendPair("Title", conflict.Existing.OriginalTitle, conflict.Candidate.OriginalTitle)
	appendPair("Date", conflict.Existing.Date, conflict.Candidate.Date)
	appendPair("Repost title", conflict.Existing.RepostTitle, conflict.Candidate.RepostTitle)
	appendPair("Repost URL", conflict.Existing.RepostURL, conflict.Candidate.RepostURL)
	tw.AppendRow(table.Row{
		"Status",
		statusText(conflict.Existing.TranslationStatus),
		statusText(conflict.Candidate.TranslationStatus),
	})
	appendPair("Comment", conflict.Existing.Comment, conflict.Candidate.Comment)

	return tw.Render()
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func statusText(status catalog.TranslationStatus) string {
	return fmt.Sprintf("%d (%s)", int(status), status.Label())
}

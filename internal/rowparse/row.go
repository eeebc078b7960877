package rowparse

import "vidsync/internal/catalog"

// Row is the working record parsed from one input line. The supplementary
// note is informational only and never persisted.
type Row struct {
	Author            string
	OriginalURL       string
	RepostTitle       string
	RepostURL         string
	TranslationStatus catalog.TranslationStatus
	Comment           string
	Note              string
}

// Parse normalizes one raw line into a Row. URLs are canonicalized so that
// formatting variants of the same video share a dedup key. Parse never
// fails: rows missing fields come back with empty strings and the caller
// decides whether the row is usable.
func Parse(line string) Row {
	fields := SplitFields(line)
	return Row{
		Author:            CleanName(fields[0]),
		OriginalURL:       CanonicalURL(fields[1]),
		RepostTitle:       fields[2],
		RepostURL:         CanonicalURL(fields[3]),
		TranslationStatus: catalog.ParseTranslationStatus(fields[4]),
		Comment:           fields[5],
		Note:              fields[6],
	}
}

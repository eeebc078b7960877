package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// ExportRow is a joined author+video record for CSV export.
type ExportRow struct {
	VideoID           int64
	OriginalTitle     string
	OriginalURL       string
	Date              string
	RepostTitle       string
	RepostURL         string
	TranslationStatus TranslationStatus
	VideoComment      string
	AuthorName        string
	AuthorURL         string
	AuthorComment     string
}

// ExportRows returns every video joined with its author, ordered by video id.
func (s *Store) ExportRows(ctx context.Context) ([]ExportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT
            v.id, v.original_title, v.original_url, v.date,
            v.repost_title, v.repost_url, v.translation_status, v.comment,
            a.name, a.url, a.comment
        FROM videos v
        LEFT JOIN authors a ON v.author_id = a.id
        ORDER BY v.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query export rows: %w", err)
	}
	defer rows.Close()

	var result []ExportRow
	for rows.Next() {
		var (
			row           ExportRow
			title         sql.NullString
			originalURL   sql.NullString
			date          sql.NullString
			repostTitle   sql.NullString
			repostURL     sql.NullString
			status        int
			videoComment  sql.NullString
			authorName    sql.NullString
			authorURL     sql.NullString
			authorComment sql.NullString
		)
		if err := rows.Scan(
			&row.VideoID, &title, &originalURL, &date,
			&repostTitle, &repostURL, &status, &videoComment,
			&authorName, &authorURL, &authorComment,
		); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		row.OriginalTitle = title.String
		row.OriginalURL = originalURL.String
		row.Date = date.String
		row.RepostTitle = repostTitle.String
		row.RepostURL = repostURL.String
		row.TranslationStatus = TranslationStatus(status)
		row.VideoComment = videoComment.String
		row.AuthorName = authorName.String
		row.AuthorURL = authorURL.String
		row.AuthorComment = authorComment.String
		result = append(result, row)
	}
	return result, rows.Err()
}

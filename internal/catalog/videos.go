package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const videoColumns = "id, author_id, original_title, original_url, date, repost_title, repost_url, translation_status, comment"

// FindVideoByOriginalURL returns the canonical record for an original URL,
// or nil when no record shares it. Force-added duplicates share a URL; the
// oldest record is treated as canonical.
func (s *Store) FindVideoByOriginalURL(ctx context.Context, url string) (*Video, error) {
	if url == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE original_url = ? ORDER BY id LIMIT 1`, url)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find video by url: %w", err)
	}
	return video, nil
}

// GetVideo fetches a video by identifier, returning nil when absent.
func (s *Store) GetVideo(ctx context.Context, id int64) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// InsertVideo persists a new video and returns its assigned id. Uniqueness of
// the original URL is the caller's concern: reconciliation checks first, and
// the force-add decision inserts anyway.
func (s *Store) InsertVideo(ctx context.Context, video *Video) (int64, error) {
	if video == nil {
		return 0, errors.New("video is nil")
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO videos (
            author_id, original_title, original_url, date,
            repost_title, repost_url, translation_status, comment
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		video.AuthorID,
		nullableString(video.OriginalTitle),
		nullableString(video.OriginalURL),
		nullableString(video.Date),
		nullableString(video.RepostTitle),
		nullableString(video.RepostURL),
		int(video.TranslationStatus),
		nullableString(video.Comment),
	)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	video.ID = id
	return id, nil
}

// UpdateVideoFields persists merged field values for an existing video. The
// owning author is deliberately left untouched; only overwrite changes it.
func (s *Store) UpdateVideoFields(ctx context.Context, video *Video) error {
	if video == nil {
		return errors.New("video is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE videos
         SET original_title = ?, date = ?, repost_title = ?, repost_url = ?,
             translation_status = ?, comment = ?
         WHERE id = ?`,
		nullableString(video.OriginalTitle),
		nullableString(video.Date),
		nullableString(video.RepostTitle),
		nullableString(video.RepostURL),
		int(video.TranslationStatus),
		nullableString(video.Comment),
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("update video fields: %w", err)
	}
	return nil
}

// ReplaceVideo overwrites every mutable field of an existing video with the
// candidate's values, including the owning author and empty values.
func (s *Store) ReplaceVideo(ctx context.Context, video *Video) error {
	if video == nil {
		return errors.New("video is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE videos
         SET author_id = ?, original_title = ?, date = ?, repost_title = ?,
             repost_url = ?, translation_status = ?, comment = ?
         WHERE id = ?`,
		video.AuthorID,
		nullableString(video.OriginalTitle),
		nullableString(video.Date),
		nullableString(video.RepostTitle),
		nullableString(video.RepostURL),
		int(video.TranslationStatus),
		nullableString(video.Comment),
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("replace video: %w", err)
	}
	return nil
}

// CountVideos returns the total number of videos in the catalog.
func (s *Store) CountVideos(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

// CountVideosByURL returns how many records share an original URL.
func (s *Store) CountVideosByURL(ctx context.Context, url string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE original_url = ?`, url).Scan(&count); err != nil {
		return 0, fmt.Errorf("count videos by url: %w", err)
	}
	return count, nil
}

// StatusCounts returns a count of videos grouped by translation status.
func (s *Store) StatusCounts(ctx context.Context) (map[TranslationStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT translation_status, COUNT(1) FROM videos GROUP BY translation_status`)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[TranslationStatus]int)
	for rows.Next() {
		var status int
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[TranslationStatus(status)] = count
	}
	return counts, rows.Err()
}

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id          int64
		authorID    int64
		title       sql.NullString
		originalURL sql.NullString
		date        sql.NullString
		repostTitle sql.NullString
		repostURL   sql.NullString
		status      int
		comment     sql.NullString
	)
	if err := scanner.Scan(&id, &authorID, &title, &originalURL, &date, &repostTitle, &repostURL, &status, &comment); err != nil {
		return nil, err
	}
	return &Video{
		ID:                id,
		AuthorID:          authorID,
		OriginalTitle:     title.String,
		OriginalURL:       originalURL.String,
		Date:              date.String,
		RepostTitle:       repostTitle.String,
		RepostURL:         repostURL.String,
		TranslationStatus: TranslationStatus(status),
		Comment:           comment.String,
	}, nil
}

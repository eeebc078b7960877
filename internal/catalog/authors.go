package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const authorColumns = "id, name, url, avatar, comment"

// FindAuthorByName returns the author with an exact name match, or nil when
// no such author exists.
func (s *Store) FindAuthorByName(ctx context.Context, name string) (*Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE name = ? ORDER BY id LIMIT 1`, name)
	author, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author by name: %w", err)
	}
	return author, nil
}

// FindAuthorByURL returns the author with a matching homepage URL, or nil.
func (s *Store) FindAuthorByURL(ctx context.Context, url string) (*Author, error) {
	if url == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE url = ? ORDER BY id LIMIT 1`, url)
	author, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author by url: %w", err)
	}
	return author, nil
}

// GetAuthor fetches an author by identifier, returning nil when absent.
func (s *Store) GetAuthor(ctx context.Context, id int64) (*Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)
	author, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

// InsertAuthor persists a new author and returns its assigned id.
func (s *Store) InsertAuthor(ctx context.Context, author *Author) (int64, error) {
	if author == nil {
		return 0, errors.New("author is nil")
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO authors (name, url, avatar, comment) VALUES (?, ?, ?, ?)`,
		author.Name,
		nullableString(author.URL),
		nullableString(author.Avatar),
		nullableString(author.Comment),
	)
	if err != nil {
		return 0, fmt.Errorf("insert author: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	author.ID = id
	return id, nil
}

// UpdateAuthorURL fills in the homepage URL for an existing author.
func (s *Store) UpdateAuthorURL(ctx context.Context, id int64, url string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE authors SET url = ? WHERE id = ?`, nullableString(url), id); err != nil {
		return fmt.Errorf("update author url: %w", err)
	}
	return nil
}

// RenameAuthor replaces an author's display name.
func (s *Store) RenameAuthor(ctx context.Context, id int64, name string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE authors SET name = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("rename author: %w", err)
	}
	return nil
}

// CountAuthors returns the total number of authors in the catalog.
func (s *Store) CountAuthors(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return count, nil
}

func scanAuthor(scanner interface{ Scan(dest ...any) error }) (*Author, error) {
	var (
		id      int64
		name    string
		url     sql.NullString
		avatar  sql.NullString
		comment sql.NullString
	)
	if err := scanner.Scan(&id, &name, &url, &avatar, &comment); err != nil {
		return nil, err
	}
	return &Author{
		ID:      id,
		Name:    name,
		URL:     url.String,
		Avatar:  avatar.String,
		Comment: comment.String,
	}, nil
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vidsync/internal/catalog"
	"vidsync/internal/logging"
	"vidsync/internal/metadata"
	"vidsync/internal/rowparse"
)

// ErrEmptyName is returned when a row declares no author at all.
var ErrEmptyName = errors.New("empty author name")

// Option configures the cache.
type Option func(*Cache)

// ReadOnly puts the cache in preview mode: lookups still hit the store,
// but nothing is created, enriched, or renamed. New authors get synthetic
// negative ids so duplicate rows in the same run still coalesce.
func ReadOnly() Option {
	return func(c *Cache) {
		c.readOnly = true
	}
}

// Cache maps declared author names to catalog author ids for the duration
// of one import run. Each name is resolved against the store at most once;
// subsequent rows for the same author are answered from memory.
type Cache struct {
	store         *catalog.Store
	logger        *slog.Logger
	readOnly      bool
	ids           map[string]int64
	nextPreviewID int64
}

// NewCache builds an identity cache over the catalog store.
func NewCache(store *catalog.Store, logger *slog.Logger, opts ...Option) *Cache {
	cache := &Cache{
		store:         store,
		logger:        logging.NewComponentLogger(logger, "identity"),
		ids:           make(map[string]int64),
		nextPreviewID: -1,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Resolve returns the author id for a declared name, creating the author
// when nothing in the catalog matches. The uploader argument carries
// platform-reported identity for the row's video and may be nil when
// metadata lookup was skipped or failed.
//
// Resolution order: in-memory cache, catalog by name, catalog by uploader
// URL, create. A name match with a missing URL gets the uploader URL
// filled in; a URL match is renamed to the declared name, which is
// treated as authoritative. The second return value reports whether a
// new author was created.
func (c *Cache) Resolve(ctx context.Context, declaredName string, uploader *metadata.Uploader) (int64, bool, error) {
	name := rowparse.CleanName(declaredName)
	if name == "" {
		return 0, false, ErrEmptyName
	}

	if id, ok := c.ids[name]; ok {
		return id, false, nil
	}

	uploaderURL := ""
	if uploader != nil {
		uploaderURL = uploader.URL
	}

	author, err := c.store.FindAuthorByName(ctx, name)
	if err != nil {
		return 0, false, fmt.Errorf("author lookup by name: %w", err)
	}
	if author != nil {
		if uploaderURL != "" && author.URL == "" && !c.readOnly {
			if err := c.store.UpdateAuthorURL(ctx, author.ID, uploaderURL); err != nil {
				return 0, false, fmt.Errorf("author url enrichment: %w", err)
			}
			c.logger.Debug("filled in author url",
				logging.String("author", name),
				logging.String("url", uploaderURL))
		}
		c.ids[name] = author.ID
		return author.ID, false, nil
	}

	if uploaderURL != "" {
		author, err = c.store.FindAuthorByURL(ctx, uploaderURL)
		if err != nil {
			return 0, false, fmt.Errorf("author lookup by url: %w", err)
		}
		if author != nil {
			if !c.readOnly {
				if err := c.store.RenameAuthor(ctx, author.ID, name); err != nil {
					return 0, false, fmt.Errorf("author rename: %w", err)
				}
			}
			c.logger.Debug("matched author by channel url",
				logging.String("old_name", author.Name),
				logging.String("new_name", name))
			c.ids[name] = author.ID
			return author.ID, false, nil
		}
	}

	created := &catalog.Author{Name: name, URL: uploaderURL}
	if uploader != nil {
		if platformName := rowparse.CleanName(uploader.Name); platformName != "" {
			created.Name = platformName
		}
		created.Avatar = uploader.Avatar
	}

	if c.readOnly {
		id := c.nextPreviewID
		c.nextPreviewID--
		c.ids[name] = id
		return id, true, nil
	}

	id, err := c.store.InsertAuthor(ctx, created)
	if err != nil {
		return 0, false, fmt.Errorf("author create: %w", err)
	}
	c.logger.Info("created author",
		logging.String("name", created.Name),
		logging.Int64("id", id))
	c.ids[name] = id
	return id, true, nil
}

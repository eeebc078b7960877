package testsupport

import (
	"context"
	"testing"

	"vidsync/internal/catalog"
	"vidsync/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.Database)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewAuthor inserts an author for tests using the provided store.
func NewAuthor(t testing.TB, store *catalog.Store, name, url string) *catalog.Author {
	t.Helper()

	author := &catalog.Author{Name: name, URL: url}
	if _, err := store.InsertAuthor(context.Background(), author); err != nil {
		t.Fatalf("store.InsertAuthor: %v", err)
	}
	return author
}

// NewVideo inserts a video for tests using the provided store.
func NewVideo(t testing.TB, store *catalog.Store, video *catalog.Video) *catalog.Video {
	t.Helper()

	if _, err := store.InsertVideo(context.Background(), video); err != nil {
		t.Fatalf("store.InsertVideo: %v", err)
	}
	return video
}

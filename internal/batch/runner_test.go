package batch_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"vidsync/internal/batch"
	"vidsync/internal/catalog"
	"vidsync/internal/identity"
	"vidsync/internal/logging"
	"vidsync/internal/metadata"
	"vidsync/internal/reconcile"
	"vidsync/internal/sideband"
	"vidsync/internal/testsupport"
)

const (
	videoOne = "https://www.youtube.com/watch?v=aaaaaaaaaaa"
	videoTwo = "https://www.youtube.com/watch?v=bbbbbbbbbbb"
)

type fixture struct {
	store    *catalog.Store
	resolver *testsupport.StubResolver
	errors   *sideband.Recorder
	runner   *batch.Runner
}

func newFixture(t *testing.T, resolver *testsupport.StubResolver, decider reconcile.Decider, opts ...func(*batch.Config)) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	policy := reconcile.PolicyAuto
	if decider != nil {
		policy = reconcile.PolicyInteractive
	}
	reconciler, err := reconcile.New(store, policy, decider, logging.NewNop())
	if err != nil {
		t.Fatalf("reconcile.New failed: %v", err)
	}

	recorder := sideband.NewRecorder(filepath.Join(t.TempDir(), "input_errors.csv"))
	batchCfg := batch.Config{
		Resolver:   resolver,
		Identity:   identity.NewCache(store, logging.NewNop()),
		Reconciler: reconciler,
		Errors:     recorder,
		Logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&batchCfg)
	}
	runner, err := batch.New(batchCfg)
	if err != nil {
		t.Fatalf("batch.New failed: %v", err)
	}
	return &fixture{store: store, resolver: resolver, errors: recorder, runner: runner}
}

func ytMeta(title, date, uploader string) *metadata.Metadata {
	return &metadata.Metadata{
		Title:      title,
		UploadDate: date,
		Uploader:   metadata.Uploader{Name: uploader, URL: "https://www.youtube.com/@" + uploader},
	}
}

func TestRunImportsSheet(t *testing.T) {
	resolver := &testsupport.StubResolver{Responses: map[string]*metadata.Metadata{
		videoOne: ytMeta("First Video", "2024-01-01", "haru"),
		videoTwo: ytMeta("Second Video", "2024-02-02", "haru"),
	}}
	f := newFixture(t, resolver, nil)

	sheet := strings.Join([]string{
		"haru," + videoOne + ",Mirror One,https://www.bilibili.com/video/av1,1,,",
		"",
		"haru," + videoTwo + ",Mirror Two,https://www.bilibili.com/video/av2,5,,",
	}, "\n")

	stats, err := f.runner.Run(context.Background(), strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.TotalRows != 2 || stats.ProcessedRows != 2 {
		t.Fatalf("unexpected row counts: %+v", stats)
	}
	if stats.NewAuthors != 1 || stats.NewVideos != 2 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	ctx := context.Background()
	stored, err := f.store.FindVideoByOriginalURL(ctx, videoOne)
	if err != nil || stored == nil {
		t.Fatalf("lookup failed: %#v err=%v", stored, err)
	}
	if stored.OriginalTitle != "First Video" || stored.Date != "2024-01-01" {
		t.Fatalf("expected resolved metadata persisted, got %#v", stored)
	}

	author, err := f.store.FindAuthorByName(ctx, "haru")
	if err != nil || author == nil {
		t.Fatalf("author lookup failed: %#v err=%v", author, err)
	}
	if author.URL != "https://www.youtube.com/@haru" {
		t.Fatalf("expected uploader URL on author, got %q", author.URL)
	}
}

func TestRunRecordsResolveFailures(t *testing.T) {
	resolver := &testsupport.StubResolver{Responses: map[string]*metadata.Metadata{
		videoTwo: ytMeta("Good Video", "2024-02-02", "haru"),
	}}
	f := newFixture(t, resolver, nil)

	sheet := "haru," + videoOne + ",Mirror,,1,,\n" +
		"haru," + videoTwo + ",,,,,\n"

	stats, err := f.runner.Run(context.Background(), strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Errors != 1 {
		t.Fatalf("expected 1 error, got %+v", stats)
	}
	// The failing row still lands in the catalog with sheet-only data.
	if stats.NewVideos != 2 {
		t.Fatalf("expected both rows inserted, got %+v", stats)
	}
	if f.errors.Count() != 1 {
		t.Fatalf("expected 1 sideband record, got %d", f.errors.Count())
	}

	stored, err := f.store.FindVideoByOriginalURL(context.Background(), videoOne)
	if err != nil || stored == nil {
		t.Fatalf("lookup failed: %#v err=%v", stored, err)
	}
	if stored.OriginalTitle != "" || stored.RepostTitle != "Mirror" {
		t.Fatalf("unexpected persisted row after failure: %#v", stored)
	}
}

func TestRunSkipMetadata(t *testing.T) {
	f := newFixture(t, nil, nil, func(cfg *batch.Config) {
		cfg.SkipMetadata = true
	})

	sheet := "haru," + videoOne + ",Mirror Title,,1,,\n"
	stats, err := f.runner.Run(context.Background(), strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.NewVideos != 1 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	stored, err := f.store.FindVideoByOriginalURL(context.Background(), videoOne)
	if err != nil || stored == nil {
		t.Fatalf("lookup failed: %#v err=%v", stored, err)
	}
	if stored.OriginalTitle != "Mirror Title" {
		t.Fatalf("expected repost title as fallback, got %q", stored.OriginalTitle)
	}

	author, err := f.store.FindAuthorByName(context.Background(), "haru")
	if err != nil || author == nil {
		t.Fatalf("author lookup failed: %#v err=%v", author, err)
	}
	if author.URL != "" {
		t.Fatalf("skip-metadata must not enrich authors, got %q", author.URL)
	}
}

func TestRunSkipsMalformedRows(t *testing.T) {
	resolver := &testsupport.StubResolver{}
	f := newFixture(t, resolver, nil)

	sheet := strings.Join([]string{
		"just-an-author-no-comma",
		",https://www.youtube.com/watch?v=ccccccccccc,,,,,",
		"   ",
	}, "\n")

	stats, err := f.runner.Run(context.Background(), strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.TotalRows != 2 || stats.ProcessedRows != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(resolver.Calls) != 0 {
		t.Fatalf("malformed rows must not trigger lookups, got %v", resolver.Calls)
	}
}

func TestRunStopsOnCancelDecision(t *testing.T) {
	resolver := &testsupport.StubResolver{Responses: map[string]*metadata.Metadata{
		videoOne: ytMeta("First", "2024-01-01", "haru"),
	}}
	decider := testsupport.NewScriptedDecider(t, reconcile.DecisionCancel)
	f := newFixture(t, resolver, decider)

	// Seed the duplicate.
	if _, err := f.runner.Run(context.Background(), strings.NewReader("haru,"+videoOne+",,,,,\n")); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	sheet := "haru," + videoOne + ",,,,,\n" +
		"haru," + videoTwo + ",,,,,\n"
	stats, err := f.runner.Run(context.Background(), strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !stats.Cancelled {
		t.Fatalf("expected cancelled run, got %+v", stats)
	}
	if stats.ProcessedRows != 0 || stats.TotalRows != 1 {
		t.Fatalf("cancellation must stop before later rows, got %+v", stats)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	resolver := &testsupport.StubResolver{}
	f := newFixture(t, resolver, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := f.runner.Run(ctx, strings.NewReader("haru,"+videoOne+",,,,,\n"))
	if err == nil {
		t.Fatal("expected context error")
	}
	if stats.TotalRows != 0 {
		t.Fatalf("expected no rows processed, got %+v", stats)
	}
}

func TestRunLogsCarryComponent(t *testing.T) {
	var logs strings.Builder
	resolver := &testsupport.StubResolver{Responses: map[string]*metadata.Metadata{
		videoOne: ytMeta("First Video", "2024-01-01", "haru"),
	}}
	f := newFixture(t, resolver, nil, func(cfg *batch.Config) {
		cfg.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	})

	if _, err := f.runner.Run(context.Background(), strings.NewReader("haru,"+videoOne+",,,,,\n")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(logs.String(), "component=batch") {
		t.Fatalf("expected component attribute in logs:\n%s", logs.String())
	}
}

func TestAcquireLockExclusive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	release, err := batch.AcquireLock(dbPath)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	if _, err := batch.AcquireLock(dbPath); err == nil {
		t.Fatal("expected second lock attempt to fail")
	}
	release()

	release, err = batch.AcquireLock(dbPath)
	if err != nil {
		t.Fatalf("relock after release failed: %v", err)
	}
	release()
}

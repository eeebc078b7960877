package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vidsync/internal/catalog"
	"vidsync/internal/identity"
	"vidsync/internal/logging"
	"vidsync/internal/metadata"
	"vidsync/internal/reconcile"
	"vidsync/internal/rowparse"
	"vidsync/internal/sideband"
)

// Stats accumulates per-run counters. Counters reflect work already
// committed; a cancelled run reports everything settled before the stop.
type Stats struct {
	TotalRows     int
	ProcessedRows int
	NewAuthors    int
	NewVideos     int
	UpdatedVideos int
	SkippedVideos int
	Errors        int
	Cancelled     bool
}

// Config wires the collaborators for one import run.
type Config struct {
	Resolver   metadata.Resolver
	Identity   *identity.Cache
	Reconciler *reconcile.Reconciler
	Errors     *sideband.Recorder
	Logger     *slog.Logger

	// SkipMetadata suppresses all resolver lookups; titles fall back to
	// the row's repost title and authors are created bare.
	SkipMetadata bool
}

// Runner drives one import: it reads the sheet line by line, normalizes
// each row, resolves metadata, settles the row against the catalog, and
// records failures in the sideband file. Rows are independent; one bad
// row never stops the run.
type Runner struct {
	resolver     metadata.Resolver
	identity     *identity.Cache
	reconciler   *reconcile.Reconciler
	errors       *sideband.Recorder
	logger       *slog.Logger
	skipMetadata bool
}

// New validates the wiring and builds a runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Identity == nil {
		return nil, errors.New("batch: identity cache required")
	}
	if cfg.Reconciler == nil {
		return nil, errors.New("batch: reconciler required")
	}
	if cfg.Errors == nil {
		return nil, errors.New("batch: sideband recorder required")
	}
	if cfg.Resolver == nil && !cfg.SkipMetadata {
		return nil, errors.New("batch: resolver required unless metadata is skipped")
	}
	logger := logging.NewComponentLogger(cfg.Logger, "batch")
	return &Runner{
		resolver:     cfg.Resolver,
		identity:     cfg.Identity,
		reconciler:   cfg.Reconciler,
		errors:       cfg.Errors,
		logger:       logger.With(logging.String("run_id", uuid.NewString())),
		skipMetadata: cfg.SkipMetadata,
	}, nil
}

// Run processes the whole sheet. The returned stats are valid even when
// err is non-nil: cancellation mid-run keeps everything committed so far.
func (r *Runner) Run(ctx context.Context, input io.Reader) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			r.logger.Info("import cancelled", logging.Int("line", lineNum))
			return stats, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.TotalRows++

		outcome, ok := r.processRow(ctx, lineNum, line, &stats)
		if !ok {
			continue
		}
		switch outcome {
		case reconcile.OutcomeInserted:
			stats.NewVideos++
		case reconcile.OutcomeUpdated:
			stats.UpdatedVideos++
		case reconcile.OutcomeSkipped:
			stats.SkippedVideos++
		case reconcile.OutcomeCancelled:
			stats.Cancelled = true
			r.logger.Info("import cancelled at operator request", logging.Int("line", lineNum))
			return stats, nil
		}
		stats.ProcessedRows++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}

	r.logger.Info("import finished",
		logging.Int("total", stats.TotalRows),
		logging.Int("processed", stats.ProcessedRows),
		logging.Int("new_videos", stats.NewVideos),
		logging.Int("updated", stats.UpdatedVideos),
		logging.Int("skipped", stats.SkippedVideos),
		logging.Int("errors", stats.Errors))
	return stats, nil
}

// processRow settles one row. The second return value is false when the
// row was consumed without reaching the reconciler: malformed input or a
// hard per-row failure.
func (r *Runner) processRow(ctx context.Context, lineNum int, line string, stats *Stats) (reconcile.Outcome, bool) {
	if !strings.Contains(line, ",") {
		r.logger.Debug("skipping malformed row", logging.Int("line", lineNum))
		return 0, false
	}

	row := rowparse.Parse(line)
	if row.Author == "" {
		r.logger.Debug("skipping row without author", logging.Int("line", lineNum))
		return 0, false
	}

	meta := r.resolveMetadata(ctx, lineNum, line, row.OriginalURL, stats)

	title, date := "", ""
	if meta != nil {
		title, date = meta.Title, meta.UploadDate
	} else if r.skipMetadata || row.OriginalURL == "" {
		// No lookup was attempted; the repost title is the best name we have.
		title = row.RepostTitle
	}

	var uploader *metadata.Uploader
	if meta != nil {
		uploader = &meta.Uploader
	}

	authorID, created, err := r.identity.Resolve(ctx, row.Author, uploader)
	if err != nil {
		r.recordFailure(lineNum, line, fmt.Errorf("resolve author: %w", err), stats)
		return 0, false
	}
	if created {
		stats.NewAuthors++
	}

	outcome, err := r.reconciler.Apply(ctx, reconcile.Candidate{
		Video: catalog.Video{
			AuthorID:          authorID,
			OriginalTitle:     title,
			OriginalURL:       row.OriginalURL,
			Date:              date,
			RepostTitle:       row.RepostTitle,
			RepostURL:         row.RepostURL,
			TranslationStatus: row.TranslationStatus,
			Comment:           row.Comment,
		},
		AuthorName: row.Author,
		Note:       row.Note,
	})
	if err != nil {
		r.recordFailure(lineNum, line, err, stats)
		return 0, false
	}
	return outcome, true
}

// resolveMetadata looks up the row's video. Failures are recorded and
// counted but never abort the row: it proceeds with whatever the sheet
// itself carries.
func (r *Runner) resolveMetadata(ctx context.Context, lineNum int, line, url string, stats *Stats) *metadata.Metadata {
	if r.skipMetadata || url == "" {
		return nil
	}
	meta, err := r.resolver.Resolve(ctx, url)
	if err != nil {
		r.recordFailure(lineNum, line, fmt.Errorf("resolve metadata: %w", err), stats)
		return nil
	}
	return meta
}

func (r *Runner) recordFailure(lineNum int, line string, cause error, stats *Stats) {
	stats.Errors++
	r.logger.Warn("row failed",
		logging.Int("line", lineNum),
		logging.Error(cause))
	if err := r.errors.Record(lineNum, line, cause.Error()); err != nil {
		r.logger.Error("sideband write failed",
			logging.Int("line", lineNum),
			logging.Error(err))
	}
}

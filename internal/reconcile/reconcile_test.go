package reconcile_test

import (
	"context"
	"testing"

	"vidsync/internal/catalog"
	"vidsync/internal/logging"
	"vidsync/internal/reconcile"
	"vidsync/internal/testsupport"
)

const dupURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newAutoReconciler(t *testing.T, store *catalog.Store, opts ...reconcile.Option) *reconcile.Reconciler {
	t.Helper()
	r, err := reconcile.New(store, reconcile.PolicyAuto, nil, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestApplyInsertsNewURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	author := testsupport.NewAuthor(t, store, "creator", "")
	r := newAutoReconciler(t, store)

	outcome, err := r.Apply(context.Background(), reconcile.Candidate{
		Video: catalog.Video{AuthorID: author.ID, OriginalURL: dupURL, OriginalTitle: "first"},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if outcome != reconcile.OutcomeInserted {
		t.Fatalf("expected inserted, got %v", outcome)
	}

	stored, err := store.FindVideoByOriginalURL(context.Background(), dupURL)
	if err != nil || stored == nil {
		t.Fatalf("expected stored video, got %#v err=%v", stored, err)
	}
}

func TestApplyEmptyURLAlwaysInserts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	author := testsupport.NewAuthor(t, store, "creator", "")
	r := newAutoReconciler(t, store)

	ctx := context.Background()
	for _, title := range []string{"mirror one", "mirror two"} {
		outcome, err := r.Apply(ctx, reconcile.Candidate{
			Video: catalog.Video{AuthorID: author.ID, RepostTitle: title},
		})
		if err != nil || outcome != reconcile.OutcomeInserted {
			t.Fatalf("Apply(%q) = %v, %v", title, outcome, err)
		}
	}

	count, err := store.CountVideos(ctx)
	if err != nil {
		t.Fatalf("CountVideos failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 independent records, got %d", count)
	}
}

func TestAutoMergeFillsGapsOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	author := testsupport.NewAuthor(t, store, "creator", "")
	existing := testsupport.NewVideo(t, store, &catalog.Video{
		AuthorID:          author.ID,
		OriginalTitle:     "A",
		OriginalURL:       dupURL,
		TranslationStatus: catalog.StatusClosedCaption,
	})
	r := newAutoReconciler(t, store)

	outcome, err := r.Apply(context.Background(), reconcile.Candidate{
		Video: catalog.Video{
			AuthorID:          author.ID,
			OriginalTitle:     "B",
			OriginalURL:       dupURL,
			Date:              "2024-01-15",
			RepostTitle:       "mirror",
			TranslationStatus: catalog.StatusClosedCaption,
		},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if outcome != reconcile.OutcomeUpdated {
		t.Fatalf("expected updated, got %v", outcome)
	}

	stored, err := store.GetVideo(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if stored.OriginalTitle != "A" {
		t.Fatalf("auto merge must not rewrite the title, got %q", stored.OriginalTitle)
	}
	if stored.Date != "2024-01-15" || stored.RepostTitle != "mirror" {
		t.Fatalf("expected gaps filled, got %#v", stored)
	}
	if stored.TranslationStatus != catalog.StatusClosedCaption {
		t.Fatalf("unexpected status: %v", stored.TranslationStatus)
	}
}

func TestAutoMergeLeavesEmptyTitleEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	author := testsupport.NewAuthor(t, store, "creator", "")
	existing := testsupport.NewVideo(t, store, &catalog.Video{
		AuthorID:    author.ID,
		OriginalURL: dupURL,
	})
	r := newAutoReconciler(t, store)

	// The title is not part of the fill-empty set: a candidate carrying
	// only a title changes nothing at all.
	outcome, err := r.Apply(context.Background(), reconcile.Candidate{
		Video: catalog.Video{AuthorID: author.ID, OriginalURL: dupURL, OriginalTitle: "late title"},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if outcome != reconcile.OutcomeSkipped {
		t.Fatalf("expected skipped, got %v", outcome)
	}

	stored, err := store.GetVideo(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if stored.OriginalTitle != "" {
		t.Fatalf("auto merge must leave an empty title empty, got %q", stored.OriginalTitle)
	}
}

func TestAutoMergeStatusAdvancesTowardComplete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	author := testsupport.NewAuthor(t, store, "creator", "")
	existing := testsupport.NewVideo(t, store, &catalog.Video{
		AuthorID:          author.ID,
		OriginalURL:       dupURL,
		TranslationStatus: catalog.StatusClosedCaption,
	})
	r := newAutoReconciler(t, store)

	ctx := context.Background()

	// A more complete status wins.
	outcome, err := r.Apply(ctx, reconcile.Candidate{
		Video: catalog.Video{AuthorID: author.ID, OriginalURL: dupURL, TranslationStatus: catalog.StatusEmbedded},
	})
	if err != nil || outcome != reconcile.OutcomeUpdated {
		t.Fatalf("Apply = %v, %v", outcome, err)
	}
	stored, _ := store.GetVideo(ctx, existing.ID)
	if stored.TranslationStatus != catalog.StatusEmbedded {
		t.Fatalf("expected status upgrade, got %v", stored.TranslationStatus)
	}

	// A less complete or unset status changes nothing.
	for _, status := range []catalog.TranslationStatus{catalog.StatusPending, catalog.StatusUnset} {
		outcome, err = r.Apply(ctx, reconcile.Candidate{
			Video: catalog.Video{AuthorID: author.ID, OriginalURL: dupURL, TranslationStatus: status},
		})
		if err != nil || outcome != reconcile.OutcomeSkipped {
			t.Fatalf("Apply(status=%v) = %v, %v", status, outcome, err)
		}
	}
}

func TestInteractiveDecisions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	owner := testsupport.NewAuthor(t, store, "owner", "")
	other := testsupport.NewAuthor(t, store, "other", "")
	existing := testsupport.NewVideo(t, store, &catalog.Video{
		AuthorID:      owner.ID,
		OriginalTitle: "kept title",
		OriginalURL:   dupURL,
		Comment:       "old note",
	})

	decider := testsupport.NewScriptedDecider(t,
		reconcile.DecisionSkip,
		reconcile.DecisionMerge,
		reconcile.DecisionAdd,
		reconcile.DecisionOverwrite,
		reconcile.DecisionCancel,
	)
	r, err := reconcile.New(store, reconcile.PolicyInteractive, decider, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	candidate := reconcile.Candidate{
		Video: catalog.Video{
			AuthorID:          other.ID,
			OriginalTitle:     "new title",
			OriginalURL:       dupURL,
			Date:              "2024-02-02",
			TranslationStatus: catalog.StatusEmbedded,
		},
		AuthorName: "other",
		Note:       "from sheet row 5",
	}

	// Skip leaves the record alone.
	outcome, err := r.Apply(ctx, candidate)
	if err != nil || outcome != reconcile.OutcomeSkipped {
		t.Fatalf("skip: %v, %v", outcome, err)
	}

	// Merge prefers candidate values but keeps the author and backfills.
	outcome, err = r.Apply(ctx, candidate)
	if err != nil || outcome != reconcile.OutcomeUpdated {
		t.Fatalf("merge: %v, %v", outcome, err)
	}
	stored, _ := store.GetVideo(ctx, existing.ID)
	if stored.OriginalTitle != "new title" || stored.Date != "2024-02-02" {
		t.Fatalf("merge should prefer candidate values, got %#v", stored)
	}
	if stored.Comment != "old note" {
		t.Fatalf("merge should backfill from existing, got %q", stored.Comment)
	}
	if stored.AuthorID != owner.ID {
		t.Fatalf("merge must keep the original author, got %d", stored.AuthorID)
	}

	// Add creates a second record with the same URL.
	outcome, err = r.Apply(ctx, candidate)
	if err != nil || outcome != reconcile.OutcomeInserted {
		t.Fatalf("add: %v, %v", outcome, err)
	}
	count, _ := store.CountVideosByURL(ctx, dupURL)
	if count != 2 {
		t.Fatalf("expected duplicate records after add, got %d", count)
	}

	// Overwrite replaces the oldest record wholesale.
	outcome, err = r.Apply(ctx, candidate)
	if err != nil || outcome != reconcile.OutcomeUpdated {
		t.Fatalf("overwrite: %v, %v", outcome, err)
	}
	stored, _ = store.GetVideo(ctx, existing.ID)
	if stored.AuthorID != other.ID || stored.Comment != "" {
		t.Fatalf("overwrite should replace all fields, got %#v", stored)
	}

	// Cancel aborts without touching anything.
	outcome, err = r.Apply(ctx, candidate)
	if err != nil || outcome != reconcile.OutcomeCancelled {
		t.Fatalf("cancel: %v, %v", outcome, err)
	}

	if len(decider.Conflicts) != 5 {
		t.Fatalf("expected 5 conflicts, got %d", len(decider.Conflicts))
	}
	first := decider.Conflicts[0]
	if first.ExistingAuthor != "owner" || first.CandidateAuthor != "other" || first.Note != "from sheet row 5" {
		t.Fatalf("unexpected conflict payload: %#v", first)
	}
}

func TestMergeOrderIndependentStatus(t *testing.T) {
	// Importing status 1 then 2 and importing 2 then 1 both settle on 1.
	for name, order := range map[string][2]catalog.TranslationStatus{
		"better first": {catalog.StatusEmbedded, catalog.StatusClosedCaption},
		"better last":  {catalog.StatusClosedCaption, catalog.StatusEmbedded},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			store := testsupport.MustOpenStore(t, cfg)
			author := testsupport.NewAuthor(t, store, "creator", "")
			r := newAutoReconciler(t, store)

			ctx := context.Background()
			for _, status := range order {
				if _, err := r.Apply(ctx, reconcile.Candidate{
					Video: catalog.Video{AuthorID: author.ID, OriginalURL: dupURL, TranslationStatus: status},
				}); err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
			}

			stored, err := store.FindVideoByOriginalURL(ctx, dupURL)
			if err != nil || stored == nil {
				t.Fatalf("lookup failed: %#v err=%v", stored, err)
			}
			if stored.TranslationStatus != catalog.StatusEmbedded {
				t.Fatalf("expected status 1 regardless of order, got %v", stored.TranslationStatus)
			}
		})
	}
}

func TestPreviewComputesWithoutWriting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	author := testsupport.NewAuthor(t, store, "creator", "")
	existing := testsupport.NewVideo(t, store, &catalog.Video{
		AuthorID:    author.ID,
		OriginalURL: dupURL,
	})
	r := newAutoReconciler(t, store, reconcile.Preview())

	ctx := context.Background()

	outcome, err := r.Apply(ctx, reconcile.Candidate{
		Video: catalog.Video{AuthorID: author.ID, OriginalURL: "https://www.youtube.com/watch?v=other0000ab"},
	})
	if err != nil || outcome != reconcile.OutcomeInserted {
		t.Fatalf("preview insert: %v, %v", outcome, err)
	}

	outcome, err = r.Apply(ctx, reconcile.Candidate{
		Video: catalog.Video{AuthorID: author.ID, OriginalURL: dupURL, Date: "2024-03-03"},
	})
	if err != nil || outcome != reconcile.OutcomeUpdated {
		t.Fatalf("preview merge: %v, %v", outcome, err)
	}

	count, _ := store.CountVideos(ctx)
	if count != 1 {
		t.Fatalf("preview must not write, got %d videos", count)
	}
	stored, _ := store.GetVideo(ctx, existing.ID)
	if stored.Date != "" {
		t.Fatalf("preview must not update, got date %q", stored.Date)
	}
}

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vidsync/internal/catalog"
	"vidsync/internal/logging"
)

// Outcome reports how one candidate row was settled against the catalog.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
	OutcomeCancelled
)

// String returns the lowercase outcome name used in logs and summaries.
func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the caller's answer to a duplicate conflict.
type Decision int

const (
	// DecisionSkip keeps the existing record untouched.
	DecisionSkip Decision = iota
	// DecisionOverwrite replaces every mutable field, empty values included.
	DecisionOverwrite
	// DecisionMerge combines both records, preferring candidate values and
	// the more complete translation status.
	DecisionMerge
	// DecisionAdd inserts the candidate as a second record sharing the URL.
	DecisionAdd
	// DecisionCancel aborts the whole run.
	DecisionCancel
)

// Conflict carries both sides of a duplicate for the decider to inspect.
type Conflict struct {
	URL             string
	Existing        catalog.Video
	ExistingAuthor  string
	Candidate       catalog.Video
	CandidateAuthor string
	Note            string
}

// Decider chooses what to do with a duplicate. Implementations may block
// on user input; they must honor ctx cancellation.
type Decider interface {
	Decide(ctx context.Context, conflict Conflict) (Decision, error)
}

// Candidate is one normalized row ready to be settled into the catalog.
type Candidate struct {
	Video      catalog.Video
	AuthorName string
	Note       string
}

// Policy selects how duplicates are resolved.
type Policy int

const (
	// PolicyInteractive routes every duplicate through the Decider.
	PolicyInteractive Policy = iota
	// PolicyAuto merges duplicates by filling empty fields, no prompting.
	PolicyAuto
)

// ParsePolicy maps a configuration string onto a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch raw {
	case "interactive":
		return PolicyInteractive, nil
	case "auto":
		return PolicyAuto, nil
	default:
		return PolicyInteractive, fmt.Errorf("unknown duplicate policy %q", raw)
	}
}

// Option configures the reconciler.
type Option func(*Reconciler)

// Preview disables all catalog writes. Outcomes are still computed and
// the decider is still consulted, so a preview run reports exactly what a
// real run would do.
func Preview() Option {
	return func(r *Reconciler) {
		r.preview = true
	}
}

// Reconciler settles candidate rows against the catalog one at a time.
// Every mutation is committed before the next row is considered.
type Reconciler struct {
	store   *catalog.Store
	decider Decider
	policy  Policy
	logger  *slog.Logger
	preview bool
}

// New builds a reconciler. The decider may be nil when the policy is
// PolicyAuto.
func New(store *catalog.Store, policy Policy, decider Decider, logger *slog.Logger, opts ...Option) (*Reconciler, error) {
	if store == nil {
		return nil, errors.New("reconcile: store required")
	}
	if policy == PolicyInteractive && decider == nil {
		return nil, errors.New("reconcile: interactive policy requires a decider")
	}
	r := &Reconciler{
		store:   store,
		decider: decider,
		policy:  policy,
		logger:  logging.NewComponentLogger(logger, "reconcile"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Apply settles one candidate. Rows without an original URL are always
// inserted as independent records; everything else is deduplicated on the
// canonical URL, where the oldest record is authoritative.
func (r *Reconciler) Apply(ctx context.Context, cand Candidate) (Outcome, error) {
	if cand.Video.OriginalURL == "" {
		return r.insert(ctx, cand.Video)
	}

	existing, err := r.store.FindVideoByOriginalURL(ctx, cand.Video.OriginalURL)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("duplicate lookup: %w", err)
	}
	if existing == nil {
		return r.insert(ctx, cand.Video)
	}

	if r.policy == PolicyAuto {
		return r.autoMerge(ctx, existing, cand.Video)
	}
	return r.decide(ctx, existing, cand)
}

func (r *Reconciler) insert(ctx context.Context, video catalog.Video) (Outcome, error) {
	if !r.preview {
		if _, err := r.store.InsertVideo(ctx, &video); err != nil {
			return OutcomeSkipped, fmt.Errorf("insert video: %w", err)
		}
	}
	return OutcomeInserted, nil
}

func (r *Reconciler) autoMerge(ctx context.Context, existing *catalog.Video, candidate catalog.Video) (Outcome, error) {
	merged, changed := mergeFillEmpty(*existing, candidate)
	if !changed {
		return OutcomeSkipped, nil
	}
	if !r.preview {
		if err := r.store.UpdateVideoFields(ctx, &merged); err != nil {
			return OutcomeSkipped, fmt.Errorf("auto merge: %w", err)
		}
	}
	return OutcomeUpdated, nil
}

func (r *Reconciler) decide(ctx context.Context, existing *catalog.Video, cand Candidate) (Outcome, error) {
	conflict := Conflict{
		URL:             cand.Video.OriginalURL,
		Existing:        *existing,
		ExistingAuthor:  r.authorName(ctx, existing.AuthorID),
		Candidate:       cand.Video,
		CandidateAuthor: cand.AuthorName,
		Note:            cand.Note,
	}

	decision, err := r.decider.Decide(ctx, conflict)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("duplicate decision: %w", err)
	}

	switch decision {
	case DecisionSkip:
		return OutcomeSkipped, nil
	case DecisionOverwrite:
		replacement := cand.Video
		replacement.ID = existing.ID
		if !r.preview {
			if err := r.store.ReplaceVideo(ctx, &replacement); err != nil {
				return OutcomeSkipped, fmt.Errorf("overwrite: %w", err)
			}
		}
		return OutcomeUpdated, nil
	case DecisionMerge:
		merged := mergePreferCandidate(*existing, cand.Video)
		if !r.preview {
			if err := r.store.UpdateVideoFields(ctx, &merged); err != nil {
				return OutcomeSkipped, fmt.Errorf("merge: %w", err)
			}
		}
		return OutcomeUpdated, nil
	case DecisionAdd:
		return r.insert(ctx, cand.Video)
	case DecisionCancel:
		return OutcomeCancelled, nil
	default:
		return OutcomeSkipped, fmt.Errorf("unknown decision %d", decision)
	}
}

func (r *Reconciler) authorName(ctx context.Context, id int64) string {
	author, err := r.store.GetAuthor(ctx, id)
	if err != nil || author == nil {
		return "unknown"
	}
	return author.Name
}

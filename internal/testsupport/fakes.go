package testsupport

import (
	"context"
	"testing"

	"vidsync/internal/metadata"
	"vidsync/internal/reconcile"
)

// StubResolver answers metadata lookups from a fixed table keyed by URL.
// URLs without an entry yield ErrUnavailable, and every lookup is
// recorded so tests can assert call counts.
type StubResolver struct {
	Responses map[string]*metadata.Metadata
	Errors    map[string]error
	Calls     []string
}

func (s *StubResolver) Resolve(_ context.Context, videoURL string) (*metadata.Metadata, error) {
	s.Calls = append(s.Calls, videoURL)
	if err, ok := s.Errors[videoURL]; ok {
		return nil, err
	}
	if meta, ok := s.Responses[videoURL]; ok {
		return meta, nil
	}
	return nil, metadata.ErrUnavailable
}

// ScriptedDecider replays a fixed sequence of duplicate decisions and
// keeps the conflicts it saw.
type ScriptedDecider struct {
	t         *testing.T
	decisions []reconcile.Decision
	Conflicts []reconcile.Conflict
}

// NewScriptedDecider builds a decider that fails the test if consulted
// more times than it has scripted decisions.
func NewScriptedDecider(t *testing.T, decisions ...reconcile.Decision) *ScriptedDecider {
	t.Helper()
	return &ScriptedDecider{t: t, decisions: decisions}
}

func (d *ScriptedDecider) Decide(_ context.Context, conflict reconcile.Conflict) (reconcile.Decision, error) {
	d.t.Helper()
	if len(d.Conflicts) >= len(d.decisions) {
		d.t.Fatalf("decider consulted %d times, only %d decisions scripted", len(d.Conflicts)+1, len(d.decisions))
	}
	d.Conflicts = append(d.Conflicts, conflict)
	return d.decisions[len(d.Conflicts)-1], nil
}

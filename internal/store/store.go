package store

import (
	"context"
	"time"
)

// RunRecord indexes one completed gating run so prior decisions can be
// listed without walking the artifact tree. The artifact files remain
// the authoritative audit trail; the ledger is a convenience index.
type RunRecord struct {
	ID        string
	CaseID    string
	Summary   string
	Outcome   string
	Severity  string
	Converged bool
	Surfaces  []string
	CreatedAt time.Time
}

// Store defines the run-ledger persistence interface.
type Store interface {
	RecordRun(ctx context.Context, rec *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Package service defines the collaborator contracts between the scoring
// core, the rolling average tracker, and the persistence layer.
package service

import (
	"context"
	"time"

	"github.com/driveline-io/driveline/internal/model"
)

// SessionLog is the per-account, append-only history of scored trips. The
// rolling average tracker only ever reads it; appending after a trip is
// scored belongs to the caller, and read-then-append for one account must not
// race (the SQLite implementation serializes on a single write connection).
type SessionLog interface {
	// RecordSession appends one scored session to the account's history.
	RecordSession(ctx context.Context, session *model.HistoricalSession) error

	// SessionsInWindow returns the sessions recorded in the closed interval
	// [from, to] for an account, oldest first.
	SessionsInWindow(ctx context.Context, accountID string, from, to time.Time) ([]model.HistoricalSession, error)

	// SessionsForAccount returns every recorded session for an account,
	// newest first.
	SessionsForAccount(ctx context.Context, accountID string) ([]model.HistoricalSession, error)
}

// Storage is the full persistence contract implemented by the SQLite layer.
type Storage interface {
	SessionLog

	// Migrate brings the schema up to the expected version.
	Migrate(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}

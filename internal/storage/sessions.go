package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driveline-io/driveline/internal/common"
	"github.com/driveline-io/driveline/internal/model"
	"github.com/mattn/go-sqlite3"
)

// RecordSession appends one scored session to the account's history.
func (s *SQLiteStorage) RecordSession(ctx context.Context, session *model.HistoricalSession) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, account_id, recorded_at, final_score, total_seconds)
		VALUES (?, ?, ?, ?, ?)
	`,
		session.ID,
		session.AccountID,
		session.RecordedAt.UTC(),
		session.FinalScore,
		session.TotalSeconds,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: session %s", common.ErrDuplicateEntry, session.ID)
		}
		return fmt.Errorf("failed to record session: %w", err)
	}

	return nil
}

// SessionsInWindow returns the sessions recorded in the closed interval
// [from, to] for an account, oldest first.
func (s *SQLiteStorage) SessionsInWindow(ctx context.Context, accountID string, from, to time.Time) ([]model.HistoricalSession, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("window end %v is before start %v", to, from)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, recorded_at, final_score, total_seconds
		FROM sessions
		WHERE account_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC
	`, accountID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query session window: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// SessionsForAccount returns every recorded session for an account, newest
// first.
func (s *SQLiteStorage) SessionsForAccount(ctx context.Context, accountID string) ([]model.HistoricalSession, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, recorded_at, final_score, total_seconds
		FROM sessions
		WHERE account_id = ?
		ORDER BY recorded_at DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// SessionCount returns the number of sessions recorded for an account.
func (s *SQLiteStorage) SessionCount(ctx context.Context, accountID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE account_id = ?`, accountID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSessions(rows rowScanner) ([]model.HistoricalSession, error) {
	var sessions []model.HistoricalSession
	for rows.Next() {
		var s model.HistoricalSession
		if err := rows.Scan(&s.ID, &s.AccountID, &s.RecordedAt, &s.FinalScore, &s.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/driveline-io/driveline/internal/model"
)

// Validation errors.
var (
	ErrEmptyField     = errors.New("field cannot be empty")
	ErrNilContext     = errors.New("context cannot be nil")
	ErrNilSession     = errors.New("session cannot be nil")
	ErrInvalidSession = errors.New("invalid session")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrEmptyField, name)
	}
	return nil
}

func validateSession(session *model.HistoricalSession) error {
	if session == nil {
		return ErrNilSession
	}
	if session.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSession)
	}
	if session.AccountID == "" {
		return fmt.Errorf("%w: missing account id", ErrInvalidSession)
	}
	if session.RecordedAt.IsZero() {
		return fmt.Errorf("%w: missing recorded_at", ErrInvalidSession)
	}
	if session.FinalScore < 0 || session.FinalScore > 100 {
		return fmt.Errorf("%w: final score %.2f outside [0,100]", ErrInvalidSession, session.FinalScore)
	}
	if session.TotalSeconds <= 0 {
		return fmt.Errorf("%w: total seconds must be positive", ErrInvalidSession)
	}
	return nil
}

// Package rolling maintains a duration-weighted average of final driving
// scores over a trailing window of historical sessions.
package rolling

import (
	"context"
	"fmt"
	"time"

	"github.com/driveline-io/driveline/internal/model"
	"github.com/driveline-io/driveline/internal/service"
)

// WindowDays is the length of the trailing evaluation window.
const WindowDays = 21

// Tracker computes rolling averages from a persisted session log. It never
// mutates the log; including the session being scored is the caller's choice,
// made by appending it before asking for the average.
type Tracker struct {
	log    service.SessionLog
	window time.Duration
}

// New creates a tracker over the given session log with the standard window.
func New(log service.SessionLog) *Tracker {
	return &Tracker{
		log:    log,
		window: WindowDays * 24 * time.Hour,
	}
}

// NewWithWindow creates a tracker with a custom trailing window.
func NewWithWindow(log service.SessionLog, window time.Duration) *Tracker {
	return &Tracker{log: log, window: window}
}

// Average computes the duration-weighted mean of final scores across the
// sessions recorded in [asOf - window, asOf]. Longer trips count
// proportionally more. An empty window reports HasData=false, which callers
// must distinguish from a zero score.
func (t *Tracker) Average(ctx context.Context, accountID string, asOf time.Time) (model.RollingAverage, error) {
	from := asOf.Add(-t.window)

	sessions, err := t.log.SessionsInWindow(ctx, accountID, from, asOf)
	if err != nil {
		return model.RollingAverage{}, fmt.Errorf("failed to read session window: %w", err)
	}

	weightedTotal := 0.0
	weightSum := 0.0
	counted := 0
	for _, s := range sessions {
		if s.TotalSeconds <= 0 {
			continue
		}
		weightedTotal += s.FinalScore * s.TotalSeconds
		weightSum += s.TotalSeconds
		counted++
	}

	if weightSum == 0 {
		return model.RollingAverage{}, nil
	}

	return model.RollingAverage{
		Value:        weightedTotal / weightSum,
		TotalSeconds: weightSum,
		Sessions:     counted,
		HasData:      true,
	}, nil
}

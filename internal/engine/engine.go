// Package engine implements the trip scoring pipeline: event normalization,
// cross-category overlap detection, penalty accumulation, per-behavior
// scoring, and weighted aggregation into a final driving score.
package engine

import (
	"fmt"

	"github.com/driveline-io/driveline/internal/config"
	"github.com/driveline-io/driveline/internal/ingest"
	"github.com/driveline-io/driveline/internal/model"
)

// Engine scores trips against a validated configuration. Scoring is a pure
// function of its input: no I/O, no shared state, safe to call from any
// number of goroutines.
type Engine struct {
	cfg   *config.Config
	night nightWindow
}

// New creates a scoring engine. The configuration is validated up front; an
// invalid configuration never produces a partial score.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring configuration rejected: %w", err)
	}

	night, err := newNightWindow(cfg.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("scoring configuration rejected: %w", err)
	}

	return &Engine{cfg: cfg, night: night}, nil
}

// Score computes the final driving score for one normalized session.
func (e *Engine) Score(input model.SessionInput) *model.FinalScore {
	annotations := e.annotate(input)
	totals, excluded := e.accumulate(input, annotations)
	behaviors := e.behaviorScores(input, totals, excluded)
	value, stars := e.aggregate(behaviors)

	return &model.FinalScore{
		Value:          value,
		Stars:          stars,
		Behaviors:      behaviors,
		TotalEvents:    input.EventCount(),
		SkippedRecords: input.SkippedRecords,
	}
}

// ScoreResults normalizes a raw detector-results document and scores it.
// totalSeconds overrides the document's embedded trip duration when positive.
func (e *Engine) ScoreResults(doc *ingest.Results, totalSeconds float64) *model.FinalScore {
	if totalSeconds <= 0 {
		totalSeconds = doc.TotalSeconds
	}
	input := e.Normalize(doc, totalSeconds)
	return e.Score(input)
}

package model

import (
	"strings"
	"time"
)

// BehaviorScore is the scored outcome for a single category.
type BehaviorScore struct {
	Category Category `json:"category"`

	// Total is the accumulated event duration in seconds, or the travelled
	// segment count for count-based categories.
	Total float64 `json:"total_duration_or_count"`

	// Penalty is the accumulated effective penalty for the category.
	Penalty float64 `json:"total_penalty"`

	// Events is how many normalized events contributed.
	Events int `json:"event_count"`

	// Score is the category score, always within [0, 100].
	Score float64 `json:"score"`
}

// FinalScore is the complete outcome of scoring one trip.
type FinalScore struct {
	// Value is the weighted final driving score, within [0, 100].
	Value float64 `json:"final_driving_score"`

	// Stars is the star rating derived from Value, within 1..5.
	Stars int `json:"star_rating"`

	// Behaviors holds the per-category breakdown.
	Behaviors map[Category]BehaviorScore `json:"behavior_scores"`

	// TotalEvents is the number of successfully normalized events.
	TotalEvents int `json:"total_events_detected_count"`

	// SkippedRecords is the number of raw records dropped during
	// normalization.
	SkippedRecords int `json:"skipped_records,omitempty"`
}

// StarsFor maps a score to its star band. 100 is the only five-star score;
// each remaining band includes its lower bound.
func StarsFor(score float64) int {
	switch {
	case score == 100:
		return 5
	case score >= 80:
		return 4
	case score >= 60:
		return 3
	case score >= 40:
		return 2
	default:
		return 1
	}
}

// StarString renders a star rating as filled and hollow stars.
func StarString(stars int) string {
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// HistoricalSession is one persisted scored trip, consumed read-only by the
// rolling average tracker and appended by the caller after scoring.
type HistoricalSession struct {
	ID           string
	AccountID    string
	RecordedAt   time.Time
	FinalScore   float64
	TotalSeconds float64
}

// RollingAverage is the duration-weighted mean of final scores over a
// trailing window. HasData distinguishes an empty window from a zero score.
type RollingAverage struct {
	Value        float64
	TotalSeconds float64
	Sessions     int
	HasData      bool
}

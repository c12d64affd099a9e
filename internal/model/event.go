package model

// DetectedEvent is the uniform shape every raw detector record is normalized
// into. It is immutable once created and owned by a single scoring run.
type DetectedEvent struct {
	ID       string
	Category Category

	// Start and End are unix timestamps bounding the event. Aggregate-only
	// categories carry a synthesized representative window.
	Start int64
	End   int64

	// Duration is derived from End-Start, or taken from an explicit duration
	// field when the detector supplies one. Always >= 0.
	Duration float64

	// Magnitude is category-specific: mph over the posted limit for speeding,
	// peak acceleration in mph/s for braking and acceleration, angular
	// velocity in deg/s for cornering, consecutive-point count for
	// distraction.
	Magnitude float64

	// PeakSpeed is the highest absolute travelling speed observed during the
	// event, in mph. Only populated for speeding events.
	PeakSpeed float64

	// Count is the number of occurrences this event represents. It is 1 for
	// discrete events and the aggregate segment count for count-based
	// categories.
	Count int

	// SpansNight is true when the event's window falls inside the configured
	// night-driving hours.
	SpansNight bool
}

// Overlaps reports whether the closed time intervals of two events intersect.
func (e DetectedEvent) Overlaps(other DetectedEvent) bool {
	if e.Start == 0 || e.End == 0 || other.Start == 0 || other.End == 0 {
		return false
	}
	return e.Start <= other.End && other.Start <= e.End
}

// SessionInput is everything one scoring run consumes: normalized events per
// category, the total recorded trip duration, and the road-segment statistics
// backing the count-based categories. It is read-only to the engine.
type SessionInput struct {
	Events map[Category][]DetectedEvent

	// TotalSeconds is the total recorded driving time for the trip.
	TotalSeconds float64

	// TravelledSegments is the number of road segments covered during the
	// trip; it is the scoring denominator for count-based categories.
	TravelledSegments int

	// SkippedRecords counts raw detector records dropped during
	// normalization. Diagnostics only; it never fails a run.
	SkippedRecords int
}

// EventCount returns the number of normalized events across all categories.
func (s SessionInput) EventCount() int {
	n := 0
	for _, events := range s.Events {
		n += len(events)
	}
	return n
}

package engine

import (
	"fmt"
	"log/slog"

	"github.com/driveline-io/driveline/internal/ingest"
	"github.com/driveline-io/driveline/internal/model"
)

// Normalize converts heterogeneous raw detector records into one uniform
// event sequence per category. Malformed records are skipped individually and
// counted; partial data always yields a best-effort session.
func (e *Engine) Normalize(doc *ingest.Results, totalSeconds float64) model.SessionInput {
	input := model.SessionInput{
		Events:            make(map[model.Category][]model.DetectedEvent),
		TotalSeconds:      totalSeconds,
		TravelledSegments: doc.Speeding.Metrics.TravelledSegments,
	}

	add := func(ev model.DetectedEvent) {
		input.Events[ev.Category] = append(input.Events[ev.Category], ev)
	}

	for idx, raw := range doc.AccelDecel {
		ev, ok := e.normalizeAccelDecel(idx, raw)
		if !ok {
			input.SkippedRecords++
			continue
		}
		add(ev)
	}

	for idx, raw := range doc.Distracted {
		start, end, ok := normalizeSpan(raw.StartTime, raw.EndTime)
		if !ok {
			input.SkippedRecords++
			continue
		}
		add(model.DetectedEvent{
			ID:         fmt.Sprintf("distracted_%d", idx),
			Category:   model.CategoryDistracted,
			Start:      start,
			End:        end,
			Duration:   spanDuration(start, end),
			Magnitude:  float64(raw.Length),
			Count:      1,
			SpansNight: e.night.spans(start, end),
		})
	}

	for idx, raw := range doc.Cornering {
		ev, ok := e.normalizeCornering(idx, raw)
		if !ok {
			input.SkippedRecords++
			continue
		}
		add(ev)
	}

	for idx, raw := range doc.Speeding.GroupedEvents {
		ev, ok := e.normalizeSpeeding(idx, raw)
		if !ok {
			input.SkippedRecords++
			continue
		}
		add(ev)
	}

	if night := e.normalizeNight(doc.NightDriving, input.Events); night != nil {
		add(*night)
	}

	if n := doc.Speeding.RoadHistoryStats.SegmentsNotDrivenRecently; n > 0 {
		add(model.DetectedEvent{
			ID:        "road_familiarity_0",
			Category:  model.CategoryRoadFamiliarity,
			Magnitude: float64(n),
			Count:     n,
		})
	}
	if n := doc.Speeding.RoadTypesTravelled.Count; n > 0 {
		add(model.DetectedEvent{
			ID:        "road_type_0",
			Category:  model.CategoryRoadType,
			Magnitude: float64(n),
			Count:     n,
		})
	}

	if input.SkippedRecords > 0 {
		slog.Debug("Skipped malformed detector records",
			"skipped", input.SkippedRecords,
			"normalized", input.EventCount())
	}

	return input
}

func (e *Engine) normalizeAccelDecel(idx int, raw ingest.AccelDecelEvent) (model.DetectedEvent, bool) {
	var category model.Category
	switch raw.Type {
	case "Hard Braking":
		category = model.CategoryHardBraking
	case "Rapid Acceleration":
		category = model.CategoryRapidAcceleration
	default:
		return model.DetectedEvent{}, false
	}

	if raw.Start == nil || raw.Start.Timestamp == 0 {
		return model.DetectedEvent{}, false
	}
	start := raw.Start.Timestamp
	end := start
	if raw.End != nil && raw.End.Timestamp != 0 {
		end = raw.End.Timestamp
	}
	if end < start {
		return model.DetectedEvent{}, false
	}

	return model.DetectedEvent{
		ID:         fmt.Sprintf("accel_%d", idx),
		Category:   category,
		Start:      start,
		End:        end,
		Duration:   spanDuration(start, end),
		Magnitude:  raw.MaxAccel,
		Count:      1,
		SpansNight: e.night.spans(start, end),
	}, true
}

func (e *Engine) normalizeCornering(idx int, raw ingest.CorneringEvent) (model.DetectedEvent, bool) {
	var category model.Category
	switch raw.EventType {
	case "HARD_CORNER":
		category = model.CategoryHardCornering
	case "GENERAL_CORNER":
		category = model.CategoryGeneralCornering
	default:
		return model.DetectedEvent{}, false
	}

	start, end, ok := normalizeSpan(raw.StartTime, raw.EndTime)
	if !ok {
		return model.DetectedEvent{}, false
	}

	duration := raw.Duration
	if duration <= 0 {
		duration = spanDuration(start, end)
	}

	return model.DetectedEvent{
		ID:         fmt.Sprintf("corner_%d", idx),
		Category:   category,
		Start:      start,
		End:        end,
		Duration:   duration,
		Magnitude:  raw.AngularVelocityDegS,
		Count:      1,
		SpansNight: e.night.spans(start, end),
	}, true
}

func (e *Engine) normalizeSpeeding(idx int, raw ingest.SpeedingGroup) (model.DetectedEvent, bool) {
	start, end := raw.StartTime, raw.EndTime
	if start == 0 && len(raw.Points) > 0 {
		start = raw.Points[0].Timestamp
	}
	if end == 0 && len(raw.Points) > 0 {
		end = raw.Points[len(raw.Points)-1].Timestamp
	}
	start, end, ok := normalizeSpan(start, end)
	if !ok {
		return model.DetectedEvent{}, false
	}

	var maxDeviation, peakSpeed float64
	spansNight := e.night.spans(start, end)
	for _, p := range raw.Points {
		deviation := p.Deviation
		if deviation == 0 && p.Limit > 0 {
			deviation = p.Speed - p.Limit
		}
		if deviation > maxDeviation {
			maxDeviation = deviation
		}
		if p.Speed > peakSpeed {
			peakSpeed = p.Speed
		}
		if e.night.contains(p.Timestamp) {
			spansNight = true
		}
	}

	id := raw.EventID
	if id == "" {
		id = fmt.Sprintf("speeding_%d", idx)
	}

	return model.DetectedEvent{
		ID:         id,
		Category:   model.CategorySpeeding,
		Start:      start,
		End:        end,
		Duration:   spanDuration(start, end),
		Magnitude:  maxDeviation,
		PeakSpeed:  peakSpeed,
		Count:      1,
		SpansNight: spansNight,
	}, true
}

// normalizeNight synthesizes a single pseudo-event for the aggregate-only
// night driving summary so downstream stages treat all categories uniformly.
// Its window spans the trip's observed event range.
func (e *Engine) normalizeNight(raw ingest.NightDriving, events map[model.Category][]model.DetectedEvent) *model.DetectedEvent {
	if raw.TotalNightSeconds <= 0 {
		return nil
	}

	var start, end int64
	for _, list := range events {
		for _, ev := range list {
			if ev.Start != 0 && (start == 0 || ev.Start < start) {
				start = ev.Start
			}
			if ev.End > end {
				end = ev.End
			}
		}
	}

	return &model.DetectedEvent{
		ID:         "night_driving_0",
		Category:   model.CategoryNightDriving,
		Start:      start,
		End:        end,
		Duration:   raw.TotalNightSeconds,
		Magnitude:  raw.TotalNightSeconds,
		Count:      1,
		SpansNight: true,
	}
}

// normalizeSpan validates raw event timestamps. A missing start or a negative
// span marks the record malformed.
func normalizeSpan(start, end int64) (int64, int64, bool) {
	if start == 0 {
		return 0, 0, false
	}
	if end == 0 {
		end = start
	}
	if end < start {
		return 0, 0, false
	}
	return start, end, true
}

// spanDuration derives an event duration in seconds. Instantaneous events
// still cost one second so they are never free.
func spanDuration(start, end int64) float64 {
	if end-start == 0 {
		return 1
	}
	return float64(end - start)
}

package engine

import (
	"github.com/driveline-io/driveline/internal/config"
	"github.com/driveline-io/driveline/internal/model"
)

// Annotation records the single effective overlap factor applied to one
// event. Partner names the overlapping category or condition that won the
// max-factor selection; it is empty when no overlap applies.
type Annotation struct {
	EventID string
	Partner string
	Factor  float64
}

// overlapPolicy lists, per category, which other event categories it may pair
// with for behavior factors. Night driving pairs through the SpansNight
// condition rather than event intersection, so it is absent here.
var overlapPolicy = map[model.Category][]model.Category{
	model.CategoryDistracted:        {model.CategorySpeeding, model.CategoryHardBraking},
	model.CategorySpeeding:          {model.CategoryDistracted, model.CategoryHardBraking},
	model.CategoryHardBraking:       {model.CategoryDistracted, model.CategorySpeeding},
	model.CategoryRapidAcceleration: {model.CategorySpeeding},
}

// annotate resolves the effective overlap factor for every event. It is a
// pure function of its input: re-running it over the same session produces
// identical annotations, with no accumulation between runs.
func (e *Engine) annotate(input model.SessionInput) map[string]Annotation {
	annotations := make(map[string]Annotation, input.EventCount())

	for category, events := range input.Events {
		for _, ev := range events {
			annotations[ev.ID] = e.annotateEvent(category, ev, input)
		}
	}

	return annotations
}

func (e *Engine) annotateEvent(category model.Category, ev model.DetectedEvent, input model.SessionInput) Annotation {
	var candidates []Annotation

	// Night driving applies whenever the event's own window touches night
	// hours, regardless of whether a night pseudo-event was synthesized.
	if ev.SpansNight && category != model.CategoryNightDriving {
		if factor, ok := e.cfg.Factor(category, model.CategoryNightDriving.String()); ok {
			candidates = append(candidates, Annotation{
				EventID: ev.ID,
				Partner: model.CategoryNightDriving.String(),
				Factor:  factor,
			})
		}
	}

	for _, partner := range overlapPolicy[category] {
		if a, ok := e.pairFactor(category, ev, partner, input.Events[partner]); ok {
			candidates = append(candidates, a)
		}
	}

	// Severity tier: severe speeding escalates an already-overlapping event.
	if category == model.CategorySpeeding && len(candidates) > 0 &&
		ev.Magnitude > e.cfg.Thresholds.SevereSpeedingOverMPH {
		if factor, ok := e.cfg.Factor(category, config.FactorSevereSpeeding); ok {
			candidates = append(candidates, Annotation{
				EventID: ev.ID,
				Partner: config.FactorSevereSpeeding,
				Factor:  factor,
			})
		}
	}

	return effectiveFactor(ev.ID, candidates)
}

// pairFactor finds whether ev overlaps any event of the partner category and
// resolves the applicable factor. A pair contributes its factor exactly once
// no matter how many partner events intersect or how long the intersection is.
func (e *Engine) pairFactor(category model.Category, ev model.DetectedEvent, partner model.Category, others []model.DetectedEvent) (Annotation, bool) {
	for _, other := range others {
		if !ev.Overlaps(other) {
			continue
		}

		// Distracted-while-speeding only counts when the travelling speed
		// exceeds the max-allowed threshold; temporal overlap alone is not
		// enough.
		if category == model.CategoryDistracted && partner == model.CategorySpeeding {
			if other.PeakSpeed <= e.cfg.Thresholds.MaxAllowedSpeedMPH {
				continue
			}
			if factor, ok := e.cfg.Factor(category, config.FactorOverMaxSpeed); ok {
				return Annotation{EventID: ev.ID, Partner: config.FactorOverMaxSpeed, Factor: factor}, true
			}
			continue
		}

		if factor, ok := e.cfg.Factor(category, partner.String()); ok {
			return Annotation{EventID: ev.ID, Partner: partner.String(), Factor: factor}, true
		}
	}
	return Annotation{}, false
}

// effectiveFactor selects the single factor applied to an event when several
// could: the maximum of the applicable factors, never their product or sum.
// With no candidates the factor is 1.0.
func effectiveFactor(eventID string, candidates []Annotation) Annotation {
	best := Annotation{EventID: eventID, Factor: 1.0}
	for _, c := range candidates {
		if c.Factor > best.Factor {
			best = c
		}
	}
	return best
}

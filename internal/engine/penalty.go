package engine

import (
	"log/slog"

	"github.com/driveline-io/driveline/internal/model"
)

// categoryTotals accumulates one category's activity and penalty over a run.
type categoryTotals struct {
	duration float64
	count    int
	penalty  float64
	events   int
}

// accumulate computes per-category totals. Each event contributes
// rate x duration (or rate x count for count-based categories) multiplied by
// its effective overlap factor; no contribution is ever negative. Categories
// present in the session but absent from the penalty config are excluded from
// the run entirely rather than failing it.
func (e *Engine) accumulate(input model.SessionInput, annotations map[string]Annotation) (map[model.Category]*categoryTotals, map[model.Category]bool) {
	totals := make(map[model.Category]*categoryTotals)
	excluded := make(map[model.Category]bool)

	for category, events := range input.Events {
		rate, ok := e.cfg.PenaltyRate(category)
		if !ok {
			excluded[category] = true
			slog.Warn("Category has events but no penalty configuration, excluding from run",
				"category", category,
				"events", len(events))
			continue
		}

		t := &categoryTotals{}
		totals[category] = t

		for _, ev := range events {
			factor := 1.0
			if a, ok := annotations[ev.ID]; ok && a.Factor > 1.0 {
				factor = a.Factor
			}

			var base float64
			if category.CountBased() {
				base = rate * float64(ev.Count)
				t.count += ev.Count
			} else {
				base = rate * ev.Duration
				t.duration += ev.Duration
			}

			t.penalty += base * factor
			t.events++
		}
	}

	return totals, excluded
}

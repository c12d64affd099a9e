package engine

import (
	"math"

	"github.com/driveline-io/driveline/internal/model"
)

// behaviorScores turns accumulated totals into a 0-100 score per enabled
// category. A category with no detected activity scores exactly 100: no risk
// was observed, and the zero denominator never reaches the division.
func (e *Engine) behaviorScores(input model.SessionInput, totals map[model.Category]*categoryTotals, excluded map[model.Category]bool) map[model.Category]model.BehaviorScore {
	behaviors := make(map[model.Category]model.BehaviorScore)

	for _, category := range model.Categories {
		if !e.cfg.Enabled(category) || excluded[category] {
			continue
		}

		t := totals[category]
		if t == nil {
			t = &categoryTotals{}
		}

		var denominator float64
		if category.CountBased() {
			denominator = float64(input.TravelledSegments)
		} else {
			denominator = t.duration
		}

		score := 100.0
		if denominator > 0 {
			score = clamp((denominator-t.penalty)/denominator*100, 0, 100)
		}

		total := t.duration
		if category.CountBased() {
			total = denominator
		}

		behaviors[category] = model.BehaviorScore{
			Category: category,
			Total:    total,
			Penalty:  round2(t.penalty),
			Events:   t.events,
			Score:    round2(score),
		}
	}

	return behaviors
}

// aggregate combines category scores into the final score and star rating
// under the configured weight policy.
func (e *Engine) aggregate(behaviors map[model.Category]model.BehaviorScore) (float64, int) {
	weightedSum := 0.0
	weightSum := 0.0

	for category, behavior := range behaviors {
		weight, ok := e.cfg.Weight(category)
		if !ok {
			continue
		}
		weightedSum += weight * behavior.Score
		weightSum += weight
	}

	value := weightedSum
	if e.cfg.RenormalizeWeights && weightSum > 0 {
		value = weightedSum / weightSum
	}
	value = round2(clamp(value, 0, 100))

	return value, model.StarsFor(value)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package engine

import (
	"testing"

	"github.com/driveline-io/driveline/internal/config"
	"github.com/driveline-io/driveline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateUsesMaxFactorNotProduct(t *testing.T) {
	eng := newTestEngine(t)

	// A distracted event overlapping both a fast speeding event (factor 2.5)
	// and a hard-braking event (factor 2.0).
	input := sessionWith(
		model.DetectedEvent{ID: "d0", Category: model.CategoryDistracted, Start: dayStart, End: dayStart + 30, Duration: 30, Count: 1},
		model.DetectedEvent{ID: "s0", Category: model.CategorySpeeding, Start: dayStart + 5, End: dayStart + 25, Duration: 20, PeakSpeed: 70, Count: 1},
		model.DetectedEvent{ID: "b0", Category: model.CategoryHardBraking, Start: dayStart + 10, End: dayStart + 12, Duration: 2, Count: 1},
	)

	annotations := eng.annotate(input)

	got := annotations["d0"]
	assert.InDelta(t, 2.5, got.Factor, 1e-9, "maximum applicable factor, never 5.0 (product) nor 4.5 (sum)")
	assert.Equal(t, config.FactorOverMaxSpeed, got.Partner)

	// And the penalty reflects exactly one application of 2.5.
	score := eng.Score(input)
	distracted := score.Behaviors[model.CategoryDistracted]
	assert.InDelta(t, 26.0*30*2.5, distracted.Penalty, 1e-9)
}

func TestAnnotateIsIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	input := sessionWith(
		model.DetectedEvent{ID: "d0", Category: model.CategoryDistracted, Start: dayStart, End: dayStart + 30, Duration: 30, Count: 1},
		model.DetectedEvent{ID: "b0", Category: model.CategoryHardBraking, Start: dayStart + 10, End: dayStart + 12, Duration: 2, Count: 1},
	)

	first := eng.annotate(input)
	second := eng.annotate(input)

	require.Equal(t, first, second, "re-running overlap detection must not accumulate")
}

func TestDistractedSpeedingRequiresOverMaxSpeed(t *testing.T) {
	eng := newTestEngine(t)

	// Temporal overlap alone is not enough: travelling speed stays below the
	// 55 mph threshold.
	input := sessionWith(
		model.DetectedEvent{ID: "d0", Category: model.CategoryDistracted, Start: dayStart, End: dayStart + 30, Duration: 30, Count: 1},
		model.DetectedEvent{ID: "s0", Category: model.CategorySpeeding, Start: dayStart + 5, End: dayStart + 25, Duration: 20, PeakSpeed: 45, Count: 1},
	)

	annotations := eng.annotate(input)
	assert.InDelta(t, 1.0, annotations["d0"].Factor, 1e-9)

	// The speeding side still pairs with distracted unconditionally.
	assert.InDelta(t, 2.5, annotations["s0"].Factor, 1e-9)
	assert.Equal(t, model.CategoryDistracted.String(), annotations["s0"].Partner)
}

func TestSevereSpeedingTier(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("severe magnitude escalates an overlapping event", func(t *testing.T) {
		input := sessionWith(
			model.DetectedEvent{ID: "s0", Category: model.CategorySpeeding, Start: dayStart, End: dayStart + 20, Duration: 20, Magnitude: 25, Count: 1},
			model.DetectedEvent{ID: "b0", Category: model.CategoryHardBraking, Start: dayStart + 5, End: dayStart + 7, Duration: 2, Count: 1},
		)

		annotations := eng.annotate(input)
		got := annotations["s0"]
		assert.InDelta(t, 2.5, got.Factor, 1e-9)
		assert.Equal(t, config.FactorSevereSpeeding, got.Partner)
	})

	t.Run("severe magnitude alone does not trigger without an overlap", func(t *testing.T) {
		input := sessionWith(
			model.DetectedEvent{ID: "s0", Category: model.CategorySpeeding, Start: dayStart, End: dayStart + 20, Duration: 20, Magnitude: 25, Count: 1},
		)

		annotations := eng.annotate(input)
		assert.InDelta(t, 1.0, annotations["s0"].Factor, 1e-9)
	})

	t.Run("below the threshold the pair factor stands", func(t *testing.T) {
		input := sessionWith(
			model.DetectedEvent{ID: "s0", Category: model.CategorySpeeding, Start: dayStart, End: dayStart + 20, Duration: 20, Magnitude: 10, Count: 1},
			model.DetectedEvent{ID: "b0", Category: model.CategoryHardBraking, Start: dayStart + 5, End: dayStart + 7, Duration: 2, Count: 1},
		)

		annotations := eng.annotate(input)
		got := annotations["s0"]
		assert.InDelta(t, 2.0, got.Factor, 1e-9)
		assert.Equal(t, model.CategoryHardBraking.String(), got.Partner)
	})
}

func TestNightOverlapThroughSpansNight(t *testing.T) {
	eng := newTestEngine(t)

	input := sessionWith(
		model.DetectedEvent{ID: "c0", Category: model.CategoryHardCornering, Start: nightTS, End: nightTS + 3, Duration: 3, SpansNight: true, Count: 1},
	)

	annotations := eng.annotate(input)
	got := annotations["c0"]
	assert.InDelta(t, 3.0, got.Factor, 1e-9)
	assert.Equal(t, model.CategoryNightDriving.String(), got.Partner)
}

func TestPairContributesFactorOnce(t *testing.T) {
	eng := newTestEngine(t)

	// Three braking events all overlapping the same distracted event: the
	// hard_braking factor still applies exactly once.
	input := sessionWith(
		model.DetectedEvent{ID: "d0", Category: model.CategoryDistracted, Start: dayStart, End: dayStart + 60, Duration: 60, Count: 1},
		model.DetectedEvent{ID: "b0", Category: model.CategoryHardBraking, Start: dayStart + 5, End: dayStart + 6, Duration: 1, Count: 1},
		model.DetectedEvent{ID: "b1", Category: model.CategoryHardBraking, Start: dayStart + 20, End: dayStart + 21, Duration: 1, Count: 1},
		model.DetectedEvent{ID: "b2", Category: model.CategoryHardBraking, Start: dayStart + 40, End: dayStart + 41, Duration: 1, Count: 1},
	)

	score := eng.Score(input)
	distracted := score.Behaviors[model.CategoryDistracted]
	assert.InDelta(t, 26.0*60*2.0, distracted.Penalty, 1e-9)
}

func TestNightWindowWrapsMidnight(t *testing.T) {
	w := nightWindow{lower: 22, upper: 4}

	// 23:00 UTC on 2025-05-05.
	late := int64(1746405600 + 23*3600)
	// 12:00 UTC the same day.
	noon := int64(1746405600 + 12*3600)
	// 02:00 UTC the next morning.
	early := int64(1746405600 + 26*3600)

	assert.True(t, w.contains(late))
	assert.True(t, w.contains(early))
	assert.False(t, w.contains(noon))
	assert.True(t, w.spans(late, early))
	assert.False(t, w.spans(noon, noon+3600))
}

func TestLocalToUTCHour(t *testing.T) {
	assert.Equal(t, 5, localToUTCHour(0, -5))
	assert.Equal(t, 9, localToUTCHour(4, -5))
	assert.Equal(t, 22, localToUTCHour(0, 2))
	assert.Equal(t, 0, localToUTCHour(0, 0))
}

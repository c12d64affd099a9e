package config

import (
	"testing"

	"github.com/driveline-io/driveline/internal/common"
	"github.com/driveline-io/driveline/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range Default().Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestValidateRejectsNegativePenalty(t *testing.T) {
	cfg := Default()
	cfg.Penalties[model.CategorySpeeding] = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestValidateRejectsFactorBelowOne(t *testing.T) {
	cfg := Default()
	cfg.BehaviorFactors[model.CategorySpeeding][model.CategoryDistracted.String()] = 0.5

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	cfg := Default()
	cfg.Penalties[model.Category("tailgating")] = 3.0

	assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
}

func TestValidateRejectsZeroWeightSum(t *testing.T) {
	cfg := Default()
	cfg.Weights = map[model.Category]float64{
		model.CategorySpeeding:   0,
		model.CategoryDistracted: 0,
	}

	assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
}

func TestValidateRejectsBadNightHours(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.NightStartHour = 24

	assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
}

func TestOffsetHours(t *testing.T) {
	tests := []struct {
		offset string
		want   int
	}{
		{offset: "-05:00:00", want: -5},
		{offset: "+02:00:00", want: 2},
		{offset: "00:00:00", want: 0},
		{offset: "", want: 0},
	}

	for _, tt := range tests {
		got, err := Thresholds{UTCOffset: tt.offset}.OffsetHours()
		require.NoError(t, err, "offset %q", tt.offset)
		assert.Equal(t, tt.want, got, "offset %q", tt.offset)
	}

	_, err := Thresholds{UTCOffset: "five hours"}.OffsetHours()
	assert.Error(t, err)
}

func TestLoadOverlaysUserValues(t *testing.T) {
	v := viper.New()
	v.Set("scoring.penalties", map[string]any{"speeding": 13.0})
	v.Set("scoring.renormalize_weights", false)
	v.Set("scoring.thresholds", map[string]any{
		"max_allowed_speed_mph":    60,
		"severe_speeding_over_mph": 25,
		"night_start_hour":         22,
		"night_end_hour":           5,
		"utc_offset":               "00:00:00",
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.InDelta(t, 13.0, cfg.Penalties[model.CategorySpeeding], 1e-9)
	// Untouched defaults survive the overlay.
	assert.InDelta(t, 600.0, cfg.Penalties[model.CategoryHardBraking], 1e-9)
	assert.False(t, cfg.RenormalizeWeights)
	assert.Equal(t, 22, cfg.Thresholds.NightStartHour)
	assert.Equal(t, 5, cfg.Thresholds.NightEndHour)
}

func TestLoadWeightsReplaceWholesale(t *testing.T) {
	v := viper.New()
	v.Set("scoring.weights", map[string]any{
		"speeding":   0.6,
		"distracted": 0.4,
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Len(t, cfg.Weights, 2)
	_, ok := cfg.Weight(model.CategoryHardBraking)
	assert.False(t, ok, "hard_braking should be disabled when left out of weights")
}

func TestLoadRejectsInvalidOverrides(t *testing.T) {
	v := viper.New()
	v.Set("scoring.penalties", map[string]any{"speeding": -2.0})

	_, err := Load(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestEnabledNeedsRateAndWeight(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Enabled(model.CategorySpeeding))

	delete(cfg.Weights, model.CategorySpeeding)
	assert.False(t, cfg.Enabled(model.CategorySpeeding))

	cfg = Default()
	delete(cfg.Penalties, model.CategorySpeeding)
	assert.False(t, cfg.Enabled(model.CategorySpeeding))
}

// Package config provides configuration loading and validation for the
// scoring engine.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/driveline-io/driveline/internal/common"
	"github.com/driveline-io/driveline/internal/model"
	"github.com/spf13/viper"
)

// Conditional behavior-factor keys. Factor tables are keyed either by the
// overlapping category name or by one of these condition names.
const (
	// FactorOverMaxSpeed applies when a distracted event overlaps a speeding
	// event whose travelling speed exceeds the max-allowed-speed threshold.
	FactorOverMaxSpeed = "over_max_speed"

	// FactorSevereSpeeding is the severity tier for speeding events whose
	// excess over the posted limit exceeds the severe-speeding threshold.
	FactorSevereSpeeding = "severe_speeding"
)

// Thresholds holds the category-specific scoring constants.
type Thresholds struct {
	// MaxAllowedSpeedMPH is the travelling speed above which a distracted
	// overlap with speeding counts.
	MaxAllowedSpeedMPH float64 `mapstructure:"max_allowed_speed_mph"`

	// SevereSpeedingOverMPH is the mph-over-limit cutoff for the severe
	// speeding tier.
	SevereSpeedingOverMPH float64 `mapstructure:"severe_speeding_over_mph"`

	// NightStartHour and NightEndHour bound the night-driving window in
	// local hours. The window may wrap midnight (start > end).
	NightStartHour int `mapstructure:"night_start_hour"`
	NightEndHour   int `mapstructure:"night_end_hour"`

	// UTCOffset is the local timezone offset, e.g. "-05:00:00".
	UTCOffset string `mapstructure:"utc_offset"`
}

// OffsetHours parses the UTC offset into whole hours.
func (t Thresholds) OffsetHours() (int, error) {
	s := strings.TrimSpace(t.UTCOffset)
	if s == "" {
		return 0, nil
	}
	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	parts := strings.Split(s, ":")
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid UTC offset %q: %w", t.UTCOffset, err)
	}
	return sign * hours, nil
}

// Config holds every tunable the scoring engine reads. It is immutable once
// validated; the engine never mutates it.
type Config struct {
	// Penalties maps each category to its penalty rate, per second for
	// duration-based categories and per segment for count-based ones.
	Penalties map[model.Category]float64 `mapstructure:"penalties"`

	// BehaviorFactors maps a category to its overlap multipliers, keyed by
	// the overlapping category or a condition name. All factors are >= 1.
	BehaviorFactors map[model.Category]map[string]float64 `mapstructure:"behavior_factors"`

	// Weights maps each enabled category to its share of the final score.
	// A category missing from Weights is disabled for the run.
	Weights map[model.Category]float64 `mapstructure:"weights"`

	// RenormalizeWeights controls the disabled-category policy: when true,
	// the weights of the enabled categories are rescaled to sum to 1.0;
	// when false, weights are used as-is and the final score is capped by
	// their sum.
	RenormalizeWeights bool `mapstructure:"renormalize_weights"`

	Thresholds Thresholds `mapstructure:"thresholds"`
}

// Default returns the stock scoring configuration.
func Default() *Config {
	return &Config{
		Penalties: map[model.Category]float64{
			model.CategoryDistracted:        26.0,
			model.CategorySpeeding:          26.0,
			model.CategoryHardBraking:       600.0,
			model.CategoryRapidAcceleration: 600.0,
			model.CategoryHardCornering:     1200.0,
			model.CategoryGeneralCornering:  1200.0,
			model.CategoryNightDriving:      2.0,
			model.CategoryRoadFamiliarity:   1.05,
			model.CategoryRoadType:          1.05,
		},
		BehaviorFactors: map[model.Category]map[string]float64{
			model.CategoryDistracted: {
				FactorOverMaxSpeed:                  2.5,
				model.CategoryHardBraking.String():  2.0,
				model.CategoryNightDriving.String(): 3.0,
			},
			model.CategorySpeeding: {
				model.CategoryDistracted.String():   2.5,
				model.CategoryHardBraking.String():  2.0,
				model.CategoryNightDriving.String(): 2.5,
				FactorSevereSpeeding:                2.5,
			},
			model.CategoryHardBraking: {
				model.CategoryDistracted.String():   2.0,
				model.CategorySpeeding.String():     2.0,
				model.CategoryNightDriving.String(): 2.5,
			},
			model.CategoryRapidAcceleration: {
				model.CategorySpeeding.String():     1.5,
				model.CategoryNightDriving.String(): 3.0,
			},
			model.CategoryHardCornering: {
				model.CategoryNightDriving.String(): 3.0,
			},
			model.CategoryGeneralCornering: {
				model.CategoryNightDriving.String(): 3.0,
			},
		},
		Weights: map[model.Category]float64{
			model.CategoryDistracted:        0.38,
			model.CategorySpeeding:          0.25,
			model.CategoryHardBraking:       0.18,
			model.CategoryRapidAcceleration: 0.08,
			model.CategoryHardCornering:     0.03,
			model.CategoryGeneralCornering:  0.01,
			model.CategoryNightDriving:      0.04,
			model.CategoryRoadFamiliarity:   0.015,
			model.CategoryRoadType:          0.015,
		},
		RenormalizeWeights: true,
		Thresholds: Thresholds{
			MaxAllowedSpeedMPH:    55,
			SevereSpeedingOverMPH: 20,
			NightStartHour:        0,
			NightEndHour:          4,
			UTCOffset:             "-05:00:00",
		},
	}
}

// Load builds a Config from viper, overlaying any user-provided scoring keys
// onto the defaults, and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()

	if v.IsSet("scoring.penalties") {
		overrides := make(map[model.Category]float64)
		if err := v.UnmarshalKey("scoring.penalties", &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse penalties: %w", err)
		}
		for cat, rate := range overrides {
			cfg.Penalties[cat] = rate
		}
	}

	if v.IsSet("scoring.behavior_factors") {
		overrides := make(map[model.Category]map[string]float64)
		if err := v.UnmarshalKey("scoring.behavior_factors", &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse behavior factors: %w", err)
		}
		for cat, factors := range overrides {
			cfg.BehaviorFactors[cat] = factors
		}
	}

	if v.IsSet("scoring.weights") {
		// Weights replace wholesale: leaving a category out disables it, so a
		// per-key merge would make disabling impossible.
		overrides := make(map[model.Category]float64)
		if err := v.UnmarshalKey("scoring.weights", &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse weights: %w", err)
		}
		cfg.Weights = overrides
	}

	if v.IsSet("scoring.renormalize_weights") {
		cfg.RenormalizeWeights = v.GetBool("scoring.renormalize_weights")
	}

	if v.IsSet("scoring.thresholds") {
		if err := v.UnmarshalKey("scoring.thresholds", &cfg.Thresholds); err != nil {
			return nil, fmt.Errorf("failed to parse thresholds: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration before any score is computed. A failure
// here is fatal: no partial score is ever produced from a bad config.
func (c *Config) Validate() error {
	for cat, rate := range c.Penalties {
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown penalty category %q", common.ErrInvalidConfig, cat)
		}
		if rate < 0 {
			return fmt.Errorf("%w: negative penalty rate %.4f for %s", common.ErrInvalidConfig, rate, cat)
		}
	}

	for cat, factors := range c.BehaviorFactors {
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown factor category %q", common.ErrInvalidConfig, cat)
		}
		for partner, factor := range factors {
			if factor < 1 {
				return fmt.Errorf("%w: factor %.4f for %s/%s is below 1", common.ErrInvalidConfig, factor, cat, partner)
			}
		}
	}

	weightSum := 0.0
	for cat, weight := range c.Weights {
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown weight category %q", common.ErrInvalidConfig, cat)
		}
		if weight < 0 {
			return fmt.Errorf("%w: negative weight %.4f for %s", common.ErrInvalidConfig, weight, cat)
		}
		weightSum += weight
	}
	if len(c.Weights) > 0 && weightSum == 0 {
		return fmt.Errorf("%w: weights sum to zero and cannot be renormalized", common.ErrInvalidConfig)
	}

	t := c.Thresholds
	if t.NightStartHour < 0 || t.NightStartHour > 23 || t.NightEndHour < 0 || t.NightEndHour > 23 {
		return fmt.Errorf("%w: night hours must be within 0-23", common.ErrInvalidConfig)
	}
	if _, err := t.OffsetHours(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	return nil
}

// PenaltyRate looks up the penalty rate for a category. The second return is
// false when the category has no configured rate.
func (c *Config) PenaltyRate(cat model.Category) (float64, bool) {
	rate, ok := c.Penalties[cat]
	return rate, ok
}

// Weight looks up the weight for a category. The second return is false when
// the category is disabled for the run.
func (c *Config) Weight(cat model.Category) (float64, bool) {
	weight, ok := c.Weights[cat]
	return weight, ok
}

// Factor looks up the behavior factor for a category against an overlapping
// category or condition name.
func (c *Config) Factor(cat model.Category, partner string) (float64, bool) {
	factors, ok := c.BehaviorFactors[cat]
	if !ok {
		return 0, false
	}
	factor, ok := factors[partner]
	return factor, ok
}

// Enabled reports whether a category participates in scoring: it needs both
// a penalty rate and a weight.
func (c *Config) Enabled(cat model.Category) bool {
	_, hasRate := c.Penalties[cat]
	_, hasWeight := c.Weights[cat]
	return hasRate && hasWeight
}

// Package model defines the core domain types shared across the application.
package model

// Category identifies one driving behavior being scored.
type Category string

// All scorable behavior categories.
const (
	CategorySpeeding          Category = "speeding"
	CategoryHardBraking       Category = "hard_braking"
	CategoryRapidAcceleration Category = "rapid_acceleration"
	CategoryHardCornering     Category = "hard_cornering"
	CategoryGeneralCornering  Category = "general_cornering"
	CategoryDistracted        Category = "distracted"
	CategoryNightDriving      Category = "night_driving"
	CategoryRoadFamiliarity   Category = "road_familiarity"
	CategoryRoadType          Category = "road_type"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategorySpeeding,
	CategoryHardBraking,
	CategoryRapidAcceleration,
	CategoryHardCornering,
	CategoryGeneralCornering,
	CategoryDistracted,
	CategoryNightDriving,
	CategoryRoadFamiliarity,
	CategoryRoadType,
}

// CountBased reports whether the category is scored per road segment rather
// than per second of recorded driving.
func (c Category) CountBased() bool {
	return c == CategoryRoadFamiliarity || c == CategoryRoadType
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Package ingest models the detector-results document produced by the
// upstream telemetry pipeline. Each detector emits its own record shape;
// decoding is lenient so a partially broken document still scores.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Point is a single telemetry sample attached to an accel/decel event.
type Point struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Velocity  float64 `json:"velocity"`
	Timestamp int64   `json:"timestamp"`
	AccelMPHS float64 `json:"accel_mphs"`
}

// AccelDecelEvent is a discrete hard-braking or rapid-acceleration event.
type AccelDecelEvent struct {
	Type     string  `json:"type"`
	Start    *Point  `json:"start"`
	End      *Point  `json:"end"`
	MaxAccel float64 `json:"max_accel"`
}

// DistractedRun is a run of consecutive distracted telemetry points.
type DistractedRun struct {
	StartIdx  int   `json:"start_idx"`
	EndIdx    int   `json:"end_idx"`
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
	Length    int   `json:"length"`
}

// CorneringEvent is a discrete hard or general cornering event.
type CorneringEvent struct {
	EventType            string  `json:"event_type"`
	StartTime            int64   `json:"start_time_unix"`
	EndTime              int64   `json:"end_time_unix"`
	Duration             float64 `json:"duration"`
	AngularVelocityDegS  float64 `json:"angular_velocity_deg_s"`
	LateralAccelerationG float64 `json:"lateral_acceleration_g"`
}

// SpeedingPoint is one sampled point inside a grouped speeding event.
type SpeedingPoint struct {
	Lat        float64 `json:"lat"`
	Long       float64 `json:"long"`
	Distracted bool    `json:"distracted"`
	Speed      float64 `json:"speed"`
	Limit      float64 `json:"limit"`
	Deviation  float64 `json:"driver_speed_deviation"`
	RoadType   string  `json:"road_type"`
	Timestamp  int64   `json:"timestamp"`
}

// SpeedingGroup is a grouped run of contiguous speeding points.
type SpeedingGroup struct {
	EventID   string          `json:"event_id"`
	StartTime int64           `json:"start_time"`
	EndTime   int64           `json:"end_time"`
	Points    []SpeedingPoint `json:"points"`
}

// SpeedingMetrics carries trip-level segment statistics from the speeding
// detector's map matching.
type SpeedingMetrics struct {
	TravelledSegments int `json:"travelled_segments"`
}

// RoadHistoryStats summarizes how much of the trip covered unfamiliar roads.
type RoadHistoryStats struct {
	SegmentsNotDrivenRecently int `json:"segments_not_driven_recently"`
}

// RoadTypesTravelled summarizes how many distinct road types were driven.
type RoadTypesTravelled struct {
	Count int `json:"road_types_travelled_count"`
}

// Speeding is the speeding detector's full output.
type Speeding struct {
	GroupedEvents      []SpeedingGroup    `json:"grouped_events"`
	Metrics            SpeedingMetrics    `json:"metrics"`
	RoadHistoryStats   RoadHistoryStats   `json:"road_history_stats"`
	RoadTypesTravelled RoadTypesTravelled `json:"road_types_travelled"`
}

// NightDriving is the night-driving detector's aggregate summary. It carries
// no discrete intervals, only totals.
type NightDriving struct {
	TotalNightSeconds float64 `json:"total_night_driving_seconds"`
	TotalPoints       int     `json:"total_points"`
	NightPoints       int     `json:"night_driving_points"`
	Percentage        float64 `json:"night_driving_percentage"`
}

// Results is the combined output of every detector for one trip.
type Results struct {
	AccelDecel   []AccelDecelEvent `json:"accel_decel"`
	Distracted   []DistractedRun   `json:"distracted"`
	Cornering    []CorneringEvent  `json:"cornering"`
	Speeding     Speeding          `json:"speeding"`
	NightDriving NightDriving      `json:"night_driving"`

	// TotalSeconds is the total recorded trip duration when the pipeline
	// embeds it in the document. Callers may override it.
	TotalSeconds float64 `json:"total_seconds"`
}

// Decode reads a detector-results document. Only an unreadable document is an
// error; malformed individual records are left for the normalizer to skip.
func Decode(r io.Reader) (*Results, error) {
	var doc Results
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode detector results: %w", err)
	}
	return &doc, nil
}

// DecodeFile reads a detector-results document from disk.
func DecodeFile(path string) (*Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

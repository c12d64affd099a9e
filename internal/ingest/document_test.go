package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"accel_decel": [
		{
			"type": "Hard Braking",
			"start": {"lat": 40.71, "lon": -74.0, "velocity": 32.4, "timestamp": 1746468891, "accel_mphs": -22.9},
			"end": {"lat": 40.71, "lon": -74.0, "velocity": 12.1, "timestamp": 1746468893, "accel_mphs": -4.2},
			"max_accel": 22.9
		}
	],
	"distracted": [
		{"start_idx": 10, "end_idx": 18, "start_time": 1746468900, "end_time": 1746468908, "length": 8}
	],
	"cornering": [
		{
			"event_type": "HARD_CORNER",
			"start_time_unix": 1746468920,
			"end_time_unix": 1746468923,
			"duration": 3.0,
			"angular_velocity_deg_s": 5.12,
			"lateral_acceleration_g": 0.31
		}
	],
	"speeding": {
		"grouped_events": [
			{
				"event_id": "evt-1",
				"start_time": 1746468930,
				"end_time": 1746468940,
				"points": [
					{"lat": 40.7, "long": -74.0, "distracted": false, "speed": 68.0, "limit": 55.0, "driver_speed_deviation": 13.0, "road_type": "motorway", "timestamp": 1746468930}
				]
			}
		],
		"metrics": {"travelled_segments": 456},
		"road_history_stats": {"segments_not_driven_recently": 31},
		"road_types_travelled": {"road_types_travelled_count": 4}
	},
	"night_driving": {
		"total_night_driving_seconds": 120.5,
		"total_points": 900,
		"night_driving_points": 120,
		"night_driving_percentage": 13.3
	},
	"total_seconds": 1800
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	require.Len(t, doc.AccelDecel, 1)
	assert.Equal(t, "Hard Braking", doc.AccelDecel[0].Type)
	require.NotNil(t, doc.AccelDecel[0].Start)
	assert.Equal(t, int64(1746468891), doc.AccelDecel[0].Start.Timestamp)
	assert.InDelta(t, 22.9, doc.AccelDecel[0].MaxAccel, 1e-9)

	require.Len(t, doc.Distracted, 1)
	assert.Equal(t, 8, doc.Distracted[0].Length)

	require.Len(t, doc.Cornering, 1)
	assert.Equal(t, "HARD_CORNER", doc.Cornering[0].EventType)
	assert.Equal(t, int64(1746468920), doc.Cornering[0].StartTime)

	require.Len(t, doc.Speeding.GroupedEvents, 1)
	group := doc.Speeding.GroupedEvents[0]
	assert.Equal(t, "evt-1", group.EventID)
	require.Len(t, group.Points, 1)
	assert.InDelta(t, 13.0, group.Points[0].Deviation, 1e-9)
	assert.Equal(t, 456, doc.Speeding.Metrics.TravelledSegments)
	assert.Equal(t, 31, doc.Speeding.RoadHistoryStats.SegmentsNotDrivenRecently)
	assert.Equal(t, 4, doc.Speeding.RoadTypesTravelled.Count)

	assert.InDelta(t, 120.5, doc.NightDriving.TotalNightSeconds, 1e-9)
	assert.InDelta(t, 1800.0, doc.TotalSeconds, 1e-9)
}

func TestDecodeEmptyDocument(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{}`))
	require.NoError(t, err)

	assert.Empty(t, doc.AccelDecel)
	assert.Empty(t, doc.Speeding.GroupedEvents)
	assert.Zero(t, doc.NightDriving.TotalNightSeconds)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"accel_decel": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0600))

	doc, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 456, doc.Speeding.Metrics.TravelledSegments)
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

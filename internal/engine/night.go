package engine

import (
	"time"

	"github.com/driveline-io/driveline/internal/config"
)

// nightWindow is the configured night-driving window converted to UTC hours.
// The window is half-open [lower, upper) and may wrap midnight.
type nightWindow struct {
	lower int
	upper int
}

func newNightWindow(t config.Thresholds) (nightWindow, error) {
	offset, err := t.OffsetHours()
	if err != nil {
		return nightWindow{}, err
	}
	return nightWindow{
		lower: localToUTCHour(t.NightStartHour, offset),
		upper: localToUTCHour(t.NightEndHour, offset),
	}, nil
}

// localToUTCHour converts a local hour to UTC given the local offset.
func localToUTCHour(localHour, offsetHours int) int {
	return ((localHour-offsetHours)%24 + 24) % 24
}

// contains reports whether a unix timestamp falls within the night window.
func (w nightWindow) contains(ts int64) bool {
	if ts == 0 {
		return false
	}
	hour := time.Unix(ts, 0).UTC().Hour()
	if w.lower > w.upper {
		return hour >= w.lower || hour < w.upper
	}
	return hour >= w.lower && hour < w.upper
}

// spans reports whether an event window touches night hours, sampling the
// start, midpoint, and end timestamps.
func (w nightWindow) spans(start, end int64) bool {
	if start == 0 || end == 0 {
		return false
	}
	if start > end {
		start, end = end, start
	}
	mid := (start + end) / 2
	return w.contains(start) || w.contains(mid) || w.contains(end)
}

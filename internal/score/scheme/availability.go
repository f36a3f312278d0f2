package scheme

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// ClockOf returns the time of day of t.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeBand assigns availability values to rooms for meetings starting at or after From.
type TimeBand struct {
	// From — band start, "HH:MM".
	From string `yaml:"from" json:"from"`
	// Values — availability value per room.
	Values map[string]float64 `yaml:"values" json:"values"`

	start Clock
}

// DefaultTimeBands returns the afternoon/morning availability profiles.
func DefaultTimeBands() []TimeBand {
	return []TimeBand{
		{From: "00:00", Values: map[string]float64{"Room A": 3, "Room B": 4, "Room C": 5}},
		{From: "12:00", Values: map[string]float64{"Room A": 4, "Room B": 5, "Room C": 3}},
	}
}

// AvailabilityTable is a step function from meeting start time to per-room availability.
type AvailabilityTable struct {
	bands []TimeBand // sorted by start, latest first
}

// NewAvailabilityTable validates and indexes the bands. Band starts must be unique.
func NewAvailabilityTable(bands []TimeBand) (*AvailabilityTable, error) {
	if len(bands) == 0 {
		return nil, errors.New("availability: no time bands")
	}

	out := make([]TimeBand, len(bands))
	seen := make(map[Clock]bool, len(bands))
	for i, b := range bands {
		start, err := ParseClock(b.From)
		if err != nil {
			return nil, fmt.Errorf("availability: band %d: %w", i, err)
		}
		if seen[start] {
			return nil, fmt.Errorf("availability: duplicate band start %s", start)
		}
		seen[start] = true
		b.start = start
		out[i] = b
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start > out[j].start })

	return &AvailabilityTable{bands: out}, nil
}

// Lookup returns the availability of room for a meeting starting at start.
// The applicable band is the latest one starting at or before start.
// Returns false when no band applies or the band has no value for room.
func (t *AvailabilityTable) Lookup(room string, start Clock) (float64, bool) {
	for _, b := range t.bands {
		if b.start <= start {
			v, ok := b.Values[room]
			return v, ok
		}
	}
	return 0, false
}

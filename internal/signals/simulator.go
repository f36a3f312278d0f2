package signals

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sync"

	"roomrank/internal/score"
	"roomrank/internal/score/scheme"
)

// SensorRange bounds the simulated readings of one room.
type SensorRange struct {
	Temperature [2]float64 `yaml:"temperature" json:"temperature"`
	Occupancy   [2]int     `yaml:"occupancy" json:"occupancy"`
}

// DefaultSensorRange applies to rooms without a configured range.
var DefaultSensorRange = SensorRange{Temperature: [2]float64{20, 25.5}, Occupancy: [2]int{1, 8}}

// Simulator generates HVAC temperature and occupancy readings.
// Every room draws from its own stream seeded by (seed, room), so readings do
// not depend on the order in which rooms are queried.
type Simulator struct {
	seed   uint64
	ranges map[string]SensorRange

	mu      sync.Mutex
	streams map[string]*rand.Rand
}

// NewSimulator creates a simulator with per-room ranges.
func NewSimulator(seed uint64, ranges map[string]SensorRange) *Simulator {
	return &Simulator{
		seed:    seed,
		ranges:  ranges,
		streams: make(map[string]*rand.Rand),
	}
}

// Attributes returns the next reading for room: temperature rounded to 0.1 °C
// and an integer head count, both within the room's range.
func (s *Simulator) Attributes(_ context.Context, room string) (score.AttributeSet, error) {
	r, ok := s.ranges[room]
	if !ok {
		r = DefaultSensorRange
	}

	s.mu.Lock()
	rng := s.stream(room)
	temp := r.Temperature[0] + rng.Float64()*(r.Temperature[1]-r.Temperature[0])
	occ := r.Occupancy[0]
	if span := r.Occupancy[1] - r.Occupancy[0]; span > 0 {
		occ += rng.IntN(span + 1)
	}
	s.mu.Unlock()

	return score.AttributeSet{
		scheme.TemperatureCriterion: score.Number(math.Round(temp*10) / 10),
		scheme.OccupancyCriterion:   score.Number(float64(occ)),
	}, nil
}

// stream must be called with mu held.
func (s *Simulator) stream(room string) *rand.Rand {
	rng, ok := s.streams[room]
	if !ok {
		h := fnv.New64a()
		h.Write([]byte(room))
		rng = rand.New(rand.NewPCG(s.seed, h.Sum64()))
		s.streams[room] = rng
	}
	return rng
}

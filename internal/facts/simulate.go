package facts

import (
	"math"
	"math/rand/v2"
	"slices"
)

// temperatureRanges are the simulated environment ranges per room (°C).
var temperatureRanges = map[string][2]float64{
	"Room A": {21, 24},
	"Room B": {22, 26},
	"Room C": {20, 23},
}

// alertRoom is the only room the simulated occupancy alert is raised on.
const alertRoom = "Room B"

// defaultTemperatureRange applies to rooms without a dedicated range.
var defaultTemperatureRange = [2]float64{20, 26}

// Simulate draws one random snapshot of every fact source for rooms.
// The snapshot is fixed once drawn; the same rng seed yields the same snapshot.
func Simulate(rng *rand.Rand, rooms []string) Sources {
	calendar := make(map[string]string, len(rooms))
	assets := make(map[string]string, len(rooms))
	demand := make(map[string]string, len(rooms))
	affinity := make(map[string]float64, len(rooms))
	temperature := make(map[string]float64, len(rooms))

	for _, room := range rooms {
		r, ok := temperatureRanges[room]
		if !ok {
			r = defaultTemperatureRange
		}
		temperature[room] = round1(r[0] + rng.Float64()*(r[1]-r[0]))
		demand[room] = pick(rng, "Low Demand", "Medium Demand", "High Demand")
		affinity[room] = round1(3.0 + rng.Float64()*2.0)
		assets[room] = pick(rng, "OK", "Needs Cleaning")
		calendar[room] = pick(rng, "Free", "Busy")
	}

	alerts := map[string]string{}
	if rng.IntN(2) == 0 && slices.Contains(rooms, alertRoom) {
		alerts[alertRoom] = "Over Occupied"
	}

	return Sources{
		Calendar:    FromMap(calendar),
		Asset:       FromMap(assets),
		Alert:       Alerts(alerts),
		Demand:      FromMap(demand),
		Affinity:    FromMap(affinity),
		Temperature: FromMap(temperature),
	}
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.IntN(len(options))]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

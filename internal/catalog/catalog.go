package catalog

import (
	"errors"
	"fmt"
	"os"

	"roomrank/internal/facts"
	"roomrank/internal/score"
	"roomrank/internal/score/rating"
	"roomrank/internal/score/scheme"
	"roomrank/internal/signals"

	"gopkg.in/yaml.v3"
)

// Room describes one candidate room.
type Room struct {
	// ID — room identifier, unique within the catalog.
	ID string `yaml:"id"`
	// Ratings — qualitative labels for the importance scheme.
	// Criteria without a label use scheme.DefaultLabel.
	Ratings map[string]string `yaml:"ratings"`
	// Values — numeric ratings for the normalized scheme.
	Values map[string]float64 `yaml:"values"`
	// Readings — fixed sensor readings used when the simulator is disabled.
	Readings map[string]float64 `yaml:"readings"`
	// Sensor — simulator bounds for this room.
	Sensor *signals.SensorRange `yaml:"sensor"`
	// Facts — static operational facts used by the facts ranking.
	Facts FactSheet `yaml:"facts"`
}

// FactSheet holds the operational facts of a room. Empty fields are unknown,
// except Alert where empty means no active alert.
type FactSheet struct {
	Calendar string   `yaml:"calendar"`
	Asset    string   `yaml:"asset"`
	Alert    string   `yaml:"alert"`
	Demand   string   `yaml:"demand"`
	Affinity *float64 `yaml:"affinity"`
}

// ImportanceSection configures the importance scheme.
type ImportanceSection struct {
	Criteria []score.Criterion `yaml:"criteria"`
	// Scale overrides the standard rating table when set.
	Scale map[string]int `yaml:"scale"`
}

// NormalizedSection configures the normalized scheme.
type NormalizedSection struct {
	Criteria    []score.Criterion   `yaml:"criteria"`
	Adjustments *scheme.Adjustments `yaml:"adjustments"`
}

// Catalog is the static description of rooms and schemes.
type Catalog struct {
	Rooms        []Room            `yaml:"rooms"`
	Importance   ImportanceSection `yaml:"importance"`
	Normalized   NormalizedSection `yaml:"normalized"`
	Availability []scheme.TimeBand `yaml:"availability"`
}

// Default returns the three-room facility.
func Default() *Catalog {
	adj := scheme.DefaultAdjustments()
	return &Catalog{
		Rooms: []Room{
			{
				ID:       "Room A",
				Values:   normalizedValues(5, 4, 3, 5, 4, 3, 3),
				Readings: readings(22.5, 3),
				Sensor:   &signals.SensorRange{Temperature: [2]float64{21, 23.5}, Occupancy: [2]int{1, 6}},
			Facts:    factSheet("Free", "OK", "Low Demand", 4.2),
			},
			{
				ID:       "Room B",
				Values:   normalizedValues(3, 2, 5, 4, 3, 4, 5),
				Readings: readings(24.1, 6),
				Sensor:   &signals.SensorRange{Temperature: [2]float64{23, 25.5}, Occupancy: [2]int{2, 8}},
			Facts:    factSheet("Busy", "OK", "Medium Demand", 3.8),
			},
			{
				ID:       "Room C",
				Values:   normalizedValues(4, 5, 4, 3, 4, 2, 4),
				Readings: readings(21.0, 1),
				Sensor:   &signals.SensorRange{Temperature: [2]float64{20, 22.5}, Occupancy: [2]int{1, 5}},
			Facts:    factSheet("Free", "Needs Cleaning", "High Demand", 4.6),
			},
		},
		Importance:   ImportanceSection{Criteria: scheme.DefaultImportanceCriteria()},
		Normalized:   NormalizedSection{Criteria: scheme.DefaultNormalizedCriteria(), Adjustments: &adj},
		Availability: scheme.DefaultTimeBands(),
	}
}

func normalizedValues(v ...float64) map[string]float64 {
	names := []string{"Occupancy Suitability", "Natural Lighting", "Energy Efficiency",
		"AV/Tech Availability", "Noise Isolation", "Proximity to Team Zone", scheme.AvailabilityCriterion}
	out := make(map[string]float64, len(names))
	for i, n := range names {
		out[n] = v[i]
	}
	return out
}

func factSheet(calendar, asset, demand string, affinity float64) FactSheet {
	return FactSheet{Calendar: calendar, Asset: asset, Demand: demand, Affinity: &affinity}
}

func readings(temp, occupancy float64) map[string]float64 {
	return map[string]float64{
		scheme.TemperatureCriterion: temp,
		scheme.OccupancyCriterion:   occupancy,
	}
}

// LoadFromFile reads a YAML catalog. Sections left out of the file keep the
// values of Default.
func LoadFromFile(file string) (*Catalog, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Parse decodes a YAML catalog over Default and validates it.
func Parse(content []byte) (*Catalog, error) {
	def := Default()
	c := Catalog{}
	if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	if len(c.Rooms) == 0 {
		c.Rooms = def.Rooms
	}
	if len(c.Importance.Criteria) == 0 {
		c.Importance.Criteria = def.Importance.Criteria
	}
	if len(c.Normalized.Criteria) == 0 {
		c.Normalized.Criteria = def.Normalized.Criteria
	}
	if c.Normalized.Adjustments == nil {
		c.Normalized.Adjustments = def.Normalized.Adjustments
	}
	if len(c.Availability) == 0 {
		c.Availability = def.Availability
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks room ids are set and unique.
func (c *Catalog) Validate() error {
	if len(c.Rooms) == 0 {
		return errors.New("catalog: no rooms")
	}
	seen := make(map[string]bool, len(c.Rooms))
	for i, r := range c.Rooms {
		if r.ID == "" {
			return fmt.Errorf("catalog: room %d has no id", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("catalog: duplicate room %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// RoomIDs returns the room ids in catalog order.
func (c *Catalog) RoomIDs() []string {
	ids := make([]string, len(c.Rooms))
	for i, r := range c.Rooms {
		ids[i] = r.ID
	}
	return ids
}

// Room returns the room with the given id.
func (c *Catalog) Room(id string) (Room, bool) {
	for _, r := range c.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// ImportanceScheme builds the importance scheme of the catalog.
func (c *Catalog) ImportanceScheme() (*scheme.Importance, error) {
	scale := rating.Standard()
	if len(c.Importance.Scale) > 0 {
		scale = rating.Scale(c.Importance.Scale)
	}
	return scheme.NewImportance(c.Importance.Criteria, scale)
}

// NormalizedScheme builds the normalized scheme of the catalog.
func (c *Catalog) NormalizedScheme() (*scheme.Normalized, error) {
	adj := scheme.DefaultAdjustments()
	if c.Normalized.Adjustments != nil {
		adj = *c.Normalized.Adjustments
	}
	return scheme.NewNormalized(c.Normalized.Criteria, adj)
}

// AvailabilityTable builds the availability time bands of the catalog.
func (c *Catalog) AvailabilityTable() (*scheme.AvailabilityTable, error) {
	return scheme.NewAvailabilityTable(c.Availability)
}

// Ratings returns the importance labels of every room, filling criteria the
// room doesn't rate with their default label.
func (c *Catalog) Ratings() signals.Static {
	out := make(signals.Static, len(c.Rooms))
	for _, r := range c.Rooms {
		attrs := make(score.AttributeSet, len(c.Importance.Criteria))
		for _, crit := range c.Importance.Criteria {
			label, ok := r.Ratings[crit.Name]
			if !ok {
				label = scheme.DefaultLabel(crit.Name)
			}
			attrs[crit.Name] = score.Label(label)
		}
		out[r.ID] = attrs
	}
	return out
}

// Values returns the static numeric ratings of every room.
// Availability here applies only when no time band covers the meeting start.
func (c *Catalog) Values() signals.Static {
	return numbers(c.Rooms, func(r Room) map[string]float64 { return r.Values })
}

// Readings returns the fixed sensor readings of every room.
func (c *Catalog) Readings() signals.Static {
	return numbers(c.Rooms, func(r Room) map[string]float64 { return r.Readings })
}

// SensorRanges returns the simulator bounds of the rooms that define them.
func (c *Catalog) SensorRanges() map[string]signals.SensorRange {
	out := make(map[string]signals.SensorRange)
	for _, r := range c.Rooms {
		if r.Sensor != nil {
			out[r.ID] = *r.Sensor
		}
	}
	return out
}

// FactSources returns the static fact sources of the catalog. Temperatures
// come from the fixed readings.
func (c *Catalog) FactSources() facts.Sources {
	calendar := make(map[string]string)
	assets := make(map[string]string)
	alerts := make(map[string]string)
	demand := make(map[string]string)
	affinity := make(map[string]float64)
	temperature := make(map[string]float64)

	for _, r := range c.Rooms {
		setIf(calendar, r.ID, r.Facts.Calendar)
		setIf(assets, r.ID, r.Facts.Asset)
		setIf(alerts, r.ID, r.Facts.Alert)
		setIf(demand, r.ID, r.Facts.Demand)
		if r.Facts.Affinity != nil {
			affinity[r.ID] = *r.Facts.Affinity
		}
		if t, ok := r.Readings[scheme.TemperatureCriterion]; ok {
			temperature[r.ID] = t
		}
	}

	return facts.Sources{
		Calendar:    facts.FromMap(calendar),
		Asset:       facts.FromMap(assets),
		Alert:       facts.Alerts(alerts),
		Demand:      facts.FromMap(demand),
		Affinity:    facts.FromMap(affinity),
		Temperature: facts.FromMap(temperature),
	}
}

func setIf(m map[string]string, room, v string) {
	if v != "" {
		m[room] = v
	}
}

func numbers(rooms []Room, get func(Room) map[string]float64) signals.Static {
	out := make(signals.Static, len(rooms))
	for _, r := range rooms {
		attrs := make(score.AttributeSet)
		for k, v := range get(r) {
			attrs[k] = score.Number(v)
		}
		out[r.ID] = attrs
	}
	return out
}

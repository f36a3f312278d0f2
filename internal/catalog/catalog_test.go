package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"roomrank/internal/score"
	"roomrank/internal/score/scheme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_BuildsSchemes(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"Room A", "Room B", "Room C"}, c.RoomIDs())

	_, err := c.ImportanceScheme()
	require.NoError(t, err)
	_, err = c.NormalizedScheme()
	require.NoError(t, err)
	_, err = c.AvailabilityTable()
	require.NoError(t, err)
}

func TestCatalog_Ratings_FillsDefaults(t *testing.T) {
	c := Default()
	c.Rooms[0].Ratings = map[string]string{"Noise Level": "Quiet"}

	attrs, err := c.Ratings().Attributes(context.Background(), "Room A")
	require.NoError(t, err)
	assert.Len(t, attrs, 9)
	assert.Equal(t, score.Label("Quiet"), attrs["Noise Level"])
	assert.Equal(t, score.Label("Medium"), attrs["Occupancy Level"])
	assert.Equal(t, score.Label("Yes"), attrs["Shared HVAC Zone"])
}

func TestCatalog_ValuesAndReadings(t *testing.T) {
	c := Default()

	values, err := c.Values().Attributes(context.Background(), "Room B")
	require.NoError(t, err)
	assert.Equal(t, score.Number(5), values["Energy Efficiency"])

	readings, err := c.Readings().Attributes(context.Background(), "Room B")
	require.NoError(t, err)
	assert.Equal(t, score.Number(24.1), readings[scheme.TemperatureCriterion])
	assert.Equal(t, score.Number(6), readings[scheme.OccupancyCriterion])

	ranges := c.SensorRanges()
	assert.Equal(t, [2]int{2, 8}, ranges["Room B"].Occupancy)
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`
rooms:
  - id: Board Room
    ratings:
      Noise Level: Quiet
    values:
      Occupancy Suitability: 5
normalized:
  adjustments:
    ideal_temperature: 21
    temperature_penalty_rate: 0.2
    ideal_occupancy: 8
    occupancy_bonus_ceiling: 10
    min_occupancy_bonus: 0
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Board Room"}, c.RoomIDs())
	assert.Len(t, c.Importance.Criteria, 9)
	assert.Len(t, c.Availability, 2)

	s, err := c.NormalizedScheme()
	require.NoError(t, err)
	adj := s.Adjustments()
	assert.Equal(t, 21.0, adj.IdealTemperature)
	require.NotNil(t, adj.MinOccupancyBonus)
	assert.Equal(t, 0.0, *adj.MinOccupancyBonus)

	room, ok := c.Room("Board Room")
	require.True(t, ok)
	assert.Equal(t, "Quiet", room.Ratings["Noise Level"])
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("rooms: [[["))
	assert.Error(t, err)

	_, err = Parse([]byte("rooms:\n  - id: A\n  - id: A\n"))
	assert.ErrorContains(t, err, "duplicate room")

	_, err = Parse([]byte("rooms:\n  - ratings: {}\n"))
	assert.ErrorContains(t, err, "no id")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rooms:\n  - id: Huddle\n"), 0o600))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Huddle"}, c.RoomIDs())

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_CustomScale(t *testing.T) {
	c, err := Parse([]byte(`
importance:
  criteria:
    - name: Noise Level
      weight: 2
  scale:
    Silent: 5
`))
	require.NoError(t, err)

	s, err := c.ImportanceScheme()
	require.NoError(t, err)
	ws, err := s.Score("Room A", score.AttributeSet{"Noise Level": score.Label("Silent")})
	require.NoError(t, err)
	assert.Equal(t, 10.0, ws.Value)
}

func TestCatalog_FactSources(t *testing.T) {
	c, err := Parse([]byte(`
rooms:
  - id: Room A
    readings:
      HVAC Temp: 22.5
    facts:
      calendar: Free
      alert: Over Occupied
      affinity: 4.5
  - id: Room B
`))
	require.NoError(t, err)
	sources := c.FactSources()

	cal, ok := sources.Calendar("Room A")
	assert.True(t, ok)
	assert.Equal(t, "Free", cal)

	_, ok = sources.Calendar("Room B")
	assert.False(t, ok, "unset calendar is unknown")
	_, ok = sources.Asset("Room A")
	assert.False(t, ok)

	alert, ok := sources.Alert("Room B")
	assert.True(t, ok, "rooms without alert are known")
	assert.Equal(t, "", alert)
	alert, _ = sources.Alert("Room A")
	assert.Equal(t, "Over Occupied", alert)

	aff, ok := sources.Affinity("Room A")
	assert.True(t, ok)
	assert.Equal(t, 4.5, aff)

	temp, ok := sources.Temperature("Room A")
	assert.True(t, ok)
	assert.Equal(t, 22.5, temp)
	_, ok = sources.Temperature("Room B")
	assert.False(t, ok)
}

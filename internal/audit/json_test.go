package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"roomrank/internal/rank"
	"roomrank/internal/score"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLineHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONLineHandler(&buf)).With("source", "test")

	logger.Info("ignored", "client", "c1", "count", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "c1", record["client"])
	assert.Equal(t, 2.0, record["count"])
	assert.Equal(t, "test", record["source"])
	assert.NotContains(t, record, "level")
	assert.NotContains(t, record, "msg")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, record["time"])
}

func TestJsonRepository_Append(t *testing.T) {
	file := filepath.Join(t.TempDir(), "audit.jsonl")
	repo := NewJsonRepository(file, 1, 1)

	r1, err := rank.Rank("importance", []score.WeightedScore{{Room: "Room B", Value: 84}, {Room: "Room A", Value: 80}})
	require.NoError(t, err)
	r2, err := rank.Rank("facts", []score.WeightedScore{{Room: "Room A", Value: 10}})
	require.NoError(t, err)

	repo.Append("client-1", r1)
	repo.Append("client-2", r2)
	require.NoError(t, repo.Close())

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	type line struct {
		Client  string       `json:"client"`
		Ranking rank.Ranking `json:"ranking"`
	}
	var lines []line
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		lines = append(lines, l)
	}
	require.NoError(t, sc.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "client-1", lines[0].Client)
	assert.Equal(t, r1.ID, lines[0].Ranking.ID)
	assert.Equal(t, "Room B", lines[0].Ranking.Winner().Room)
	assert.Equal(t, "facts", lines[1].Ranking.Scheme)
}

func TestNop(t *testing.T) {
	var repo Repository = Nop{}
	repo.Append("client", rank.Ranking{})
	assert.NoError(t, repo.Close())
}

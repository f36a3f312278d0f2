package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `
logger:
  level: info
server:
  address: ":8080"
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, "roomrank_client", config.Server.TokenCookie)
	assert.Equal(t, 1024, config.Server.Limiters)
	assert.Equal(t, 4, config.Scoring.Concurrency)
	assert.Equal(t, 23.0, config.Scoring.MaxTemperature)
	assert.Equal(t, 10, config.History.Length)
	assert.Equal(t, time.Hour, config.History.Ttl)
	assert.Equal(t, 100, config.Audit.Size)
	assert.Equal(t, 20, config.Audit.Amount)
	assert.False(t, config.Simulator.Enabled)
}

func TestLoadConfig_Full(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `
logger:
  level: DEBUG
server:
  address: "127.0.0.1:9000"
  rate_limit: 5
scoring:
  catalog: /etc/roomrank/catalog.yaml
  rules: /etc/roomrank/rules.yaml
  concurrency: 8
  max_temperature: 24.5
  timezone: Europe/Berlin
  sensors_url: http://gateway:9000
  sensors_timeout: 500ms
history:
  length: 3
  ttl: 5m
audit:
  file: /var/log/roomrank/audit.jsonl
  size: 10
  amount: 2
simulator:
  enabled: true
  seed: 42
`))
	require.NoError(t, err)

	assert.Equal(t, 5.0, config.Server.RateLimit)
	assert.Equal(t, 1, config.Server.Burst)
	assert.Equal(t, "/etc/roomrank/rules.yaml", config.Scoring.Rules)
	assert.Equal(t, 8, config.Scoring.Concurrency)
	assert.Equal(t, 24.5, config.Scoring.MaxTemperature)
	assert.Equal(t, "http://gateway:9000", config.Scoring.SensorsURL)
	assert.Equal(t, 500*time.Millisecond, config.Scoring.SensorsTimeout)
	assert.Equal(t, 5*time.Minute, config.History.Ttl)
	assert.Equal(t, "/var/log/roomrank/audit.jsonl", config.Audit.File)
	assert.True(t, config.Simulator.Enabled)
	assert.Equal(t, uint64(42), config.Simulator.Seed)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ROOMRANK_SERVER_ADDRESS", ":9999")

	config, err := LoadConfig(writeConfig(t, `
logger:
  level: info
server:
  address: ":8080"
`))
	require.NoError(t, err)
	assert.Equal(t, ":9999", config.Server.Address)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")

	_, err = LoadConfig(writeConfig(t, "logger:\n  level: verbose\nserver:\n  address: \":1\"\n"))
	assert.ErrorContains(t, err, "logger.level")

	_, err = LoadConfig(writeConfig(t, "logger:\n  level: info\n"))
	assert.ErrorContains(t, err, "server.address")
}

func TestScoringConfig_Validate(t *testing.T) {
	s := ScoringConfig{Timezone: "Not/AZone"}
	assert.ErrorContains(t, s.Validate(), "scoring.timezone")

	s = ScoringConfig{Concurrency: -1}
	assert.ErrorContains(t, s.Validate(), "scoring.concurrency")

	s = ScoringConfig{SensorsURL: "gateway:9000"}
	assert.ErrorContains(t, s.Validate(), "scoring.sensors_url")

	s = ScoringConfig{}
	require.NoError(t, s.Validate())
	assert.Equal(t, 2*time.Second, s.SensorsTimeout)
	loc, err := s.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestServerConfig_Validate(t *testing.T) {
	s := ServerConfig{Address: ":1", RateLimit: -1}
	assert.ErrorContains(t, s.Validate(), "server.rate_limit")
}

func TestHistoryConfig_Validate(t *testing.T) {
	h := HistoryConfig{Length: -1}
	assert.ErrorContains(t, h.Validate(), "history.length")
}

package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger — logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server — HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Scoring — catalog, rules and engine settings
	Scoring ScoringConfig `mapstructure:"scoring"`
	// History — per-client ranking history
	History HistoryConfig `mapstructure:"history"`
	// Audit — ranking audit trail
	Audit AuditConfig `mapstructure:"audit"`
	// Simulator — simulated sensors and facts
	Simulator SimulatorConfig `mapstructure:"simulator"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level — log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address — address and port where the server will listen (e.g., ":8080").
	Address string `mapstructure:"address"`
	// TokenCookie — cookie carrying the client identity when the
	// X-Client-Token header is absent.
	TokenCookie string `mapstructure:"token_cookie"`
	// RateLimit — requests per second allowed per client. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Burst — burst size of the per-client limiter.
	Burst int `mapstructure:"burst"`
	// Limiters — number of client limiters kept in memory.
	Limiters int `mapstructure:"limiters"`
}

// ScoringConfig defines what is scored and how.
type ScoringConfig struct {
	// Catalog — path to the room catalog in YAML format. Built-in rooms are used if empty.
	Catalog string `mapstructure:"catalog"`
	// Rules — path to the fact rules in YAML format. Built-in rules are used if empty.
	Rules string `mapstructure:"rules"`
	// Concurrency — maximum number of rooms scored in parallel.
	Concurrency int `mapstructure:"concurrency"`
	// MaxTemperature — default comfort limit for fact rankings and lookups.
	MaxTemperature float64 `mapstructure:"max_temperature"`
	// Timezone — IANA zone used to read the current time when no start is given.
	Timezone string `mapstructure:"timezone"`
	// SensorsURL — base URL of a sensor gateway serving live readings (optional).
	SensorsURL string `mapstructure:"sensors_url"`
	// SensorsTimeout — timeout of a single gateway request (default 2s).
	SensorsTimeout time.Duration `mapstructure:"sensors_timeout"`
}

// HistoryConfig defines the per-client ranking history.
type HistoryConfig struct {
	// Length — maximum number of rankings kept per client.
	Length int `mapstructure:"length"`
	// Ttl — idle time after which a client's rankings are dropped.
	// Example: "5m", "1h", "24h".
	Ttl time.Duration `mapstructure:"ttl"`
}

// AuditConfig defines the ranking audit trail.
type AuditConfig struct {
	// File — audit file path (optional, auditing is disabled if empty)
	File string `mapstructure:"file"`
	// Size — maximal audit file size in MB (default 100)
	Size int `mapstructure:"size"`
	// Amount — number of rotated audit files (default 20)
	Amount int `mapstructure:"amount"`
}

// SimulatorConfig defines the simulated signal sources.
type SimulatorConfig struct {
	// Enabled — use simulated sensor readings and facts instead of catalog values.
	Enabled bool `mapstructure:"enabled"`
	// Seed — seed of the simulation; equal seeds give equal readings.
	Seed uint64 `mapstructure:"seed"`
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected error.
func (c *AppConfig) Validate() error {
	validators := []interface{ Validate() error }{
		&c.Logger, &c.Server, &c.Scoring, &c.History, &c.Audit,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the correctness of the logger configuration.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	return nil
}

// Validate checks the correctness of the server configuration.
func (s *ServerConfig) Validate() error {
	if s.Address == "" {
		return errors.New("server.address: must be specified")
	}
	if s.RateLimit < 0 {
		return errors.New("server.rate_limit: must not be negative")
	}
	if s.RateLimit > 0 && s.Burst <= 0 {
		s.Burst = 1
	}
	if s.Limiters <= 0 {
		s.Limiters = 1024
	}
	if s.TokenCookie == "" {
		s.TokenCookie = "roomrank_client"
	}

	return nil
}

// Validate checks the scoring parameters and fills defaults.
func (s *ScoringConfig) Validate() error {
	if s.Concurrency < 0 {
		return errors.New("scoring.concurrency: must not be negative")
	}
	if s.Concurrency == 0 {
		s.Concurrency = 4
	}
	if s.MaxTemperature == 0 {
		s.MaxTemperature = 23
	}
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("scoring.timezone: %w", err)
	}
	if s.SensorsURL != "" {
		if u, err := url.Parse(s.SensorsURL); err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("scoring.sensors_url: must be an absolute URL")
		}
	}
	if s.SensorsTimeout == 0 {
		s.SensorsTimeout = 2 * time.Second
	}
	return nil
}

// Location returns the configured time zone, UTC if unset.
func (s *ScoringConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Validate checks the history parameters and fills defaults.
func (h *HistoryConfig) Validate() error {
	if h.Length < 0 {
		return errors.New("history.length: must not be negative")
	}
	if h.Length == 0 {
		h.Length = 10
	}
	if h.Ttl == 0 {
		h.Ttl = time.Hour
	}
	return nil
}

// Validate audit parameters
func (a *AuditConfig) Validate() error {
	if a.Amount == 0 {
		a.Amount = 20
	}

	if a.Size == 0 {
		a.Size = 100
	}

	return nil
}

// LoadConfig loads configuration from the specified file using Viper.
// Supports YAML format. Environment variables (ROOMRANK_SERVER_ADDRESS etc.)
// override values from the file.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("roomrank")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

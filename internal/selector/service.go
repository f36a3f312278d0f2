package selector

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"roomrank/internal/audit"
	"roomrank/internal/catalog"
	"roomrank/internal/engine"
	"roomrank/internal/facts"
	"roomrank/internal/history"
	"roomrank/internal/rank"
	"roomrank/internal/score"
	"roomrank/internal/score/rule"
	"roomrank/internal/score/scheme"
	"roomrank/internal/score/scorer"
	"roomrank/internal/signals"
)

// Options configures a Service.
type Options struct {
	// Catalog — rooms and scheme definitions.
	Catalog *catalog.Catalog
	// Rules — fact rules for the facts ranking; rule.DefaultRules if nil.
	Rules []rule.Rule
	// MaxTemperature — comfort limit used when a request sets none.
	MaxTemperature float64
	// Location — time zone of the wall clock when a request has no start time.
	Location *time.Location
	// Simulate — draw sensor readings and facts from the simulator
	// instead of the catalog.
	Simulate bool
	// Seed — simulator seed.
	Seed uint64
	// Sensors — live sensor readings; overrides Simulate and the catalog readings.
	Sensors score.SignalProvider
}

// Service answers room comparison requests. Every ranking it produces is
// recorded in the client's history and in the audit trail.
type Service struct {
	catalog      *catalog.Catalog
	importance   *scheme.Importance
	normalized   *scheme.Normalized
	availability *scheme.AvailabilityTable
	rules        *scorer.RulesScorer

	sensors        score.SignalProvider
	live           bool
	simulate       bool
	seed           uint64
	draws          atomic.Uint64
	maxTemperature float64
	location       *time.Location

	engine  *engine.Engine
	history *history.Repository
	audit   audit.Repository
}

// New builds the schemes of the catalog and wires them to the engine.
func New(opts Options, e *engine.Engine, h *history.Repository, a audit.Repository) (*Service, error) {
	c := opts.Catalog
	if c == nil {
		c = catalog.Default()
	}
	importance, err := c.ImportanceScheme()
	if err != nil {
		return nil, fmt.Errorf("importance scheme: %w", err)
	}
	normalized, err := c.NormalizedScheme()
	if err != nil {
		return nil, fmt.Errorf("normalized scheme: %w", err)
	}
	availability, err := c.AvailabilityTable()
	if err != nil {
		return nil, fmt.Errorf("availability: %w", err)
	}
	if a == nil {
		a = audit.Nop{}
	}
	rules := opts.Rules
	if rules == nil {
		if rules, err = rule.Parse([]byte(rule.DefaultRules), facts.NewEnv); err != nil {
			return nil, fmt.Errorf("default rules: %w", err)
		}
	}

	s := &Service{
		catalog:        c,
		importance:     importance,
		normalized:     normalized,
		availability:   availability,
		rules:          scorer.NewRulesScorer(rules, facts.RoomFacts),
		simulate:       opts.Simulate,
		seed:           opts.Seed,
		maxTemperature: opts.MaxTemperature,
		location:       opts.Location,
		engine:         e,
		history:        h,
		audit:          a,
	}
	if s.maxTemperature == 0 {
		s.maxTemperature = facts.DefaultPreferences().MaxTemperature
	}
	if s.location == nil {
		s.location = time.UTC
	}
	switch {
	case opts.Sensors != nil:
		s.sensors = opts.Sensors
		s.live = true
	case opts.Simulate:
		s.sensors = signals.NewSimulator(opts.Seed, c.SensorRanges())
	default:
		s.sensors = c.Readings()
	}
	return s, nil
}

// RankImportance ranks rooms by the importance scheme. Request ratings
// override the catalog labels of the rooms they name.
func (s *Service) RankImportance(ctx context.Context, client string, req ImportanceRequest) (rank.Ranking, error) {
	overrides := make(signals.Static, len(req.Ratings))
	for room, labels := range req.Ratings {
		attrs := make(score.AttributeSet, len(labels))
		for criterion, label := range labels {
			attrs[criterion] = score.Label(label)
		}
		overrides[room] = attrs
	}

	return s.run(ctx, client, req.Rooms, s.importance, signals.Merge(s.catalog.Ratings(), overrides))
}

// RankNormalized ranks rooms by the normalized scheme for a meeting starting
// at req.Start ("HH:MM", the current time when empty).
func (s *Service) RankNormalized(ctx context.Context, client string, req NormalizedRequest) (rank.Ranking, error) {
	start, err := s.startClock(req.Start)
	if err != nil {
		return rank.Ranking{}, err
	}

	// the time band overrides the catalog Availability
	sig := signals.Merge(
		s.catalog.Values(),
		signals.Availability{Table: s.availability, Start: start},
		s.sensors,
	)
	return s.run(ctx, client, req.Rooms, s.normalized, sig)
}

// RankFacts ranks rooms by the fact rules.
func (s *Service) RankFacts(ctx context.Context, client string, req FactsRequest) (rank.Ranking, error) {
	var sig score.SignalProvider = facts.Provider{
		Sources:     s.factSources(),
		Preferences: s.preferences(req.Preferences),
	}
	if s.live {
		sig = liveTemperature{facts: sig, sensors: s.sensors}
	}
	return s.run(ctx, client, req.Rooms, s.rules, sig)
}

// Lookup returns the first room, in request order, whose current temperature
// is below the limit. Rooms without a reading are skipped. Nothing is booked.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) (LookupResult, error) {
	limit := s.maxTemperature
	if req.MaxTemperature != nil {
		limit = *req.MaxTemperature
	}

	for _, room := range s.rooms(req.Rooms) {
		attrs, err := s.sensors.Attributes(ctx, room)
		if err != nil {
			return LookupResult{}, fmt.Errorf("lookup: %w", err)
		}
		temp, ok := attrs[scheme.TemperatureCriterion]
		if !ok || temp.Kind != score.KindNumber {
			slog.Debug("No temperature reading", "room", room)
			continue
		}
		if temp.Number < limit {
			return LookupResult{Room: room, Temperature: temp.Number, MaxTemperature: limit}, nil
		}
	}
	return LookupResult{}, ErrNoSuitableRoom
}

// History returns the recent rankings of client, oldest first.
func (s *Service) History(client string) ([]rank.Ranking, error) {
	rankings, ok := s.history.Get(client)
	if !ok {
		return nil, NewHistoryNotFoundError(client)
	}
	return rankings, nil
}

// Latest returns the newest ranking of client.
func (s *Service) Latest(client string) (rank.Ranking, error) {
	ranking, ok := s.history.Latest(client)
	if !ok {
		return rank.Ranking{}, NewHistoryNotFoundError(client)
	}
	return ranking, nil
}

func (s *Service) run(ctx context.Context, client string, rooms []string, sc score.Scheme, sig score.SignalProvider) (rank.Ranking, error) {
	ranking, err := s.engine.Run(ctx, engine.Request{
		Rooms:   s.rooms(rooms),
		Scheme:  sc,
		Signals: sig,
	})
	if err != nil {
		return rank.Ranking{}, err
	}

	if client != "" {
		s.history.Append(client, ranking)
	}
	s.audit.Append(client, ranking)
	return ranking, nil
}

// rooms returns the requested rooms, or the whole catalog when the request
// names none. An explicitly empty list stays empty.
func (s *Service) rooms(requested []string) []string {
	if requested == nil {
		return s.catalog.RoomIDs()
	}
	return requested
}

func (s *Service) startClock(start string) (scheme.Clock, error) {
	if start == "" {
		return scheme.ClockOf(time.Now().In(s.location)), nil
	}
	clock, err := scheme.ParseClock(start)
	if err != nil {
		return 0, fmt.Errorf("%w: start: %w", ErrInvalidRequest, err)
	}
	return clock, nil
}

// preferences fills the fields a request leaves out from the defaults and
// the configured temperature limit.
func (s *Service) preferences(p *Preferences) facts.Preferences {
	prefs := facts.DefaultPreferences()
	prefs.MaxTemperature = s.maxTemperature
	if p == nil {
		return prefs
	}
	if p.MaxTemperature != nil {
		prefs.MaxTemperature = *p.MaxTemperature
	}
	if p.NeedQuiet != nil {
		prefs.NeedQuiet = *p.NeedQuiet
	}
	if p.NeedProjector != nil {
		prefs.NeedProjector = *p.NeedProjector
	}
	return prefs
}

// liveTemperature replaces the temperature fact with the live sensor reading,
// so fact rankings and lookups agree on a room's temperature. A room without
// a reading has an unknown temperature.
type liveTemperature struct {
	facts   score.SignalProvider
	sensors score.SignalProvider
}

func (l liveTemperature) Attributes(ctx context.Context, room string) (score.AttributeSet, error) {
	set, err := l.facts.Attributes(ctx, room)
	if err != nil {
		return nil, err
	}
	readings, err := l.sensors.Attributes(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("sensors: %w", err)
	}
	delete(set, facts.Temperature)
	if t, ok := readings[scheme.TemperatureCriterion]; ok && t.Kind == score.KindNumber {
		set[facts.Temperature] = t
	}
	return set, nil
}

// factSources returns the catalog facts, or a fresh simulated snapshot. The
// n-th snapshot of a seed is always the same.
func (s *Service) factSources() facts.Sources {
	if !s.simulate {
		return s.catalog.FactSources()
	}
	n := s.draws.Add(1)
	rng := rand.New(rand.NewPCG(s.seed, n))
	return facts.Simulate(rng, s.catalog.RoomIDs())
}

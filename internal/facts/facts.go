package facts

import (
	"context"

	"roomrank/internal/score"

	"github.com/google/cel-go/cel"
)

// Fact names, also the CEL variable names available to rules.
const (
	// Room facts, answered by fact sources. Any of them may be unknown.
	Calendar    = "calendar"
	Asset       = "asset"
	Alert       = "alert"
	Demand      = "demand"
	Affinity    = "affinity"
	Temperature = "temperature"

	// Preference facts, always known.
	MaxTemperature = "max_temp"
	NeedQuiet      = "need_quiet"
	NeedProjector  = "need_projector"
)

// RoomFacts lists the facts answered per room by fact sources.
var RoomFacts = []string{Calendar, Asset, Alert, Demand, Affinity, Temperature}

// NewEnv returns the CEL environment rules are compiled against.
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// --- Room facts ---
		cel.Variable(Calendar, cel.StringType),
		cel.Variable(Asset, cel.StringType),
		cel.Variable(Alert, cel.StringType),
		cel.Variable(Demand, cel.StringType),
		cel.Variable(Affinity, cel.DoubleType),
		cel.Variable(Temperature, cel.DoubleType),

		// --- Preferences ---
		cel.Variable(MaxTemperature, cel.DoubleType),
		cel.Variable(NeedQuiet, cel.BoolType),
		cel.Variable(NeedProjector, cel.BoolType),
	)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Lookup answers one fact about a room. The bool is false when the fact is unknown.
type Lookup[T any] func(room string) (T, bool)

// FromMap answers from m; rooms missing from m are unknown.
func FromMap[T any](m map[string]T) Lookup[T] {
	return func(room string) (T, bool) {
		v, ok := m[room]
		return v, ok
	}
}

// Alerts answers with the active alert of a room, or "" for rooms without one.
// Every room is known: absence from active means no alert.
func Alerts(active map[string]string) Lookup[string] {
	return func(room string) (string, bool) {
		return active[room], true
	}
}

// Sources groups the independent fact sources. A nil source answers unknown for every room.
type Sources struct {
	Calendar    Lookup[string]
	Asset       Lookup[string]
	Alert       Lookup[string]
	Demand      Lookup[string]
	Affinity    Lookup[float64]
	Temperature Lookup[float64]
}

// Preferences are the user's requirements for the meeting.
type Preferences struct {
	MaxTemperature float64 `json:"max_temp" yaml:"max_temp"`
	NeedQuiet      bool    `json:"need_quiet" yaml:"need_quiet"`
	NeedProjector  bool    `json:"need_projector" yaml:"need_projector"`
}

// DefaultPreferences returns a 23 °C limit with a quiet room and a projector.
func DefaultPreferences() Preferences {
	return Preferences{MaxTemperature: 23, NeedQuiet: true, NeedProjector: true}
}

// Collect gathers every known fact about room plus the preferences.
// Unknown facts are left out of the set.
func (s Sources) Collect(room string, p Preferences) score.AttributeSet {
	set := score.AttributeSet{
		MaxTemperature: score.Number(p.MaxTemperature),
		NeedQuiet:      score.Fact(p.NeedQuiet),
		NeedProjector:  score.Fact(p.NeedProjector),
	}
	collect(set, Calendar, s.Calendar, room, score.Label)
	collect(set, Asset, s.Asset, room, score.Label)
	collect(set, Alert, s.Alert, room, score.Label)
	collect(set, Demand, s.Demand, room, score.Label)
	collect(set, Affinity, s.Affinity, room, score.Number)
	collect(set, Temperature, s.Temperature, room, score.Number)
	return set
}

func collect[T any](set score.AttributeSet, name string, lookup Lookup[T], room string, wrap func(T) score.Value) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(room); ok {
		set[name] = wrap(v)
	}
}

// Provider adapts Sources to a score.SignalProvider for one set of preferences.
type Provider struct {
	Sources     Sources
	Preferences Preferences
}

func (p Provider) Attributes(_ context.Context, room string) (score.AttributeSet, error) {
	return p.Sources.Collect(room, p.Preferences), nil
}

package score

// Adjustment keys reported by schemes in WeightedScore.Adjustments.
const (
	AdjustmentBase               = "base"
	AdjustmentTemperaturePenalty = "temperature_penalty"
	AdjustmentOccupancyBonus     = "occupancy_bonus"
)

// Criterion is a scheme-scoped weighted criterion.
type Criterion struct {
	// Name — criterion identifier, the key in AttributeSet.
	Name string `yaml:"name" json:"name"`
	// Weight — positive weight within the owning scheme.
	Weight float64 `yaml:"weight" json:"weight"`
	// Kind — scale type of the expected value.
	Kind Kind `yaml:"-" json:"-"`
}

// Term is the contribution of one criterion (or one rule) to a room score.
type Term struct {
	Name         string  `json:"name"`
	Raw          Value   `json:"raw"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// WeightedScore is the result of applying one scheme to one room.
// It is immutable once returned.
type WeightedScore struct {
	Room  string  `json:"room"`
	Value float64 `json:"score"`
	// Terms — per-criterion intermediate values in criteria order.
	Terms []Term `json:"terms"`
	// Adjustments — scheme-specific intermediate values (base, penalty, bonus).
	Adjustments map[string]float64 `json:"adjustments,omitempty"`
	// Diagnostics — recovered conditions met while scoring this room.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// DiagnosticKind classifies a recovered condition.
type DiagnosticKind string

const (
	// UnknownRatingLabel — a label was not in the rating scale and the default was used.
	UnknownRatingLabel DiagnosticKind = "unknown_rating_label"
	// UnknownFact — a fact source had no answer for a room; its rules contributed zero.
	UnknownFact DiagnosticKind = "unknown_fact"
)

// Diagnostic describes a recovered condition. Diagnostics never abort a run.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Room      string         `json:"room"`
	Criterion string         `json:"criterion"`
	Detail    string         `json:"detail,omitempty"`
}

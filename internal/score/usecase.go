package score

import "context"

// Scheme is a named combination of criteria, weights and a scoring rule.
// A scheme must be safe for concurrent use: the engine scores rooms in parallel.
type Scheme interface {
	// Name identifies the scheme in requests, logs and metrics.
	Name() string
	// Criteria lists the criteria the scheme requires, in declaration order.
	Criteria() []Criterion
	// Score computes the weighted score of one room.
	// Returns MissingCriterionError or InvalidCriterionValueError when attrs
	// doesn't satisfy Criteria.
	Score(room string, attrs AttributeSet) (WeightedScore, error)
}

// SignalProvider supplies the attribute set of a room.
// Implementations must return a value for every criterion they declare.
type SignalProvider interface {
	Attributes(ctx context.Context, room string) (AttributeSet, error)
}

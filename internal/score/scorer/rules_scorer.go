package scorer

import (
	"log/slog"
	"math"

	"roomrank/internal/score"
	"roomrank/internal/score/rule"
)

// FactsName identifies the rule-based fact aggregator.
const FactsName = "facts"

// RulesScorer is a score.Scheme that sums the increments of every rule that
// applies to a room's facts. It declares no required criteria: a fact missing
// from the set only disables the rules that read it.
type RulesScorer struct {
	rules []rule.Rule // rules in evaluation order
	facts []string    // optional facts whose absence is reported
}

// NewRulesScorer creates a new instance of RulesScorer.
// Parameters:
//   - rules: initialized rules to apply
//   - facts: names of optional facts; each one missing for a room yields an
//     UnknownFact diagnostic
func NewRulesScorer(rules []rule.Rule, facts []string) *RulesScorer {
	return &RulesScorer{rules: rules, facts: facts}
}

func (rs *RulesScorer) Name() string { return FactsName }

// Criteria returns nil: every fact is optional.
func (rs *RulesScorer) Criteria() []score.Criterion { return nil }

// Score evaluates every rule against attrs and adds up the increments,
// rounded to two decimals.
// The breakdown holds one term per rule, zero when the rule did not apply.
// Never returns an error.
func (rs *RulesScorer) Score(room string, attrs score.AttributeSet) (score.WeightedScore, error) {
	result := score.WeightedScore{
		Room:  room,
		Terms: make([]score.Term, 0, len(rs.rules)),
	}

	for _, f := range rs.facts {
		if _, ok := attrs[f]; !ok {
			slog.Debug("Unknown fact", "room", room, "fact", f)
			result.Diagnostics = append(result.Diagnostics, score.Diagnostic{
				Kind:      score.UnknownFact,
				Room:      room,
				Criterion: f,
				Detail:    "no source answered; dependent rules contribute zero",
			})
		}
	}

	activation := rule.Activation(attrs)
	for i := range rs.rules {
		r := &rs.rules[i]
		delta, applied := r.Eval(activation)
		term := score.Term{Name: r.Name, Weight: 1}
		if applied {
			term.Raw = score.Fact(true)
			term.Value = delta
			term.Contribution = delta
			result.Value += delta
		} else {
			term.Raw = score.Fact(false)
		}
		result.Terms = append(result.Terms, term)
	}
	result.Value = math.Round(result.Value*100) / 100

	return result, nil
}

package scheme

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"roomrank/internal/score"
	"roomrank/internal/score/rating"
)

// ImportanceName identifies the integer-weighted ordinal scheme.
const ImportanceName = "importance"

// Importance scores rooms as Σ rating(label) × weight over ordinal criteria.
// Totals are not normalized: they compare only within one run over the same criteria.
type Importance struct {
	criteria []score.Criterion
	scale    rating.Scale
}

// DefaultImportanceCriteria returns the nine facility criteria with their importance weights.
func DefaultImportanceCriteria() []score.Criterion {
	return []score.Criterion{
		{Name: "Occupancy Level", Weight: 5},
		{Name: "Noise Level", Weight: 4},
		{Name: "Natural Light Availability", Weight: 2},
		{Name: "Shared HVAC Zone", Weight: 3},
		{Name: "Energy Efficiency Features", Weight: 3},
		{Name: "Proximity to Team", Weight: 3},
		{Name: "Availability at Required Time", Weight: 5},
		{Name: "Security Level", Weight: 4},
		{Name: "Crowd Level on Floor", Weight: 3},
	}
}

// DefaultLabel returns the label preselected for a criterion when nothing was chosen:
// "Medium" for level criteria, "Yes" for the rest.
func DefaultLabel(criterion string) string {
	if strings.Contains(criterion, "Level") {
		return "Medium"
	}
	return "Yes"
}

// NewImportance creates the scheme. Weights must be positive integers and
// criterion names unique.
func NewImportance(criteria []score.Criterion, scale rating.Scale) (*Importance, error) {
	if len(criteria) == 0 {
		return nil, errors.New("importance: no criteria")
	}
	if scale == nil {
		scale = rating.Standard()
	}

	seen := make(map[string]bool, len(criteria))
	out := make([]score.Criterion, len(criteria))
	for i, c := range criteria {
		if c.Name == "" {
			return nil, fmt.Errorf("importance: criterion %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("importance: duplicate criterion %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight <= 0 || c.Weight != math.Trunc(c.Weight) {
			return nil, fmt.Errorf("importance: criterion %q weight %v must be a positive integer", c.Name, c.Weight)
		}
		c.Kind = score.KindLabel
		out[i] = c
	}

	return &Importance{criteria: out, scale: scale}, nil
}

func (s *Importance) Name() string { return ImportanceName }

func (s *Importance) Criteria() []score.Criterion {
	return append([]score.Criterion(nil), s.criteria...)
}

// Score resolves each criterion label through the rating scale and sums the
// weighted ratings. Unknown labels fall back to rating.DefaultValue and are
// reported as diagnostics.
func (s *Importance) Score(room string, attrs score.AttributeSet) (score.WeightedScore, error) {
	result := score.WeightedScore{
		Room:  room,
		Terms: make([]score.Term, 0, len(s.criteria)),
	}

	for _, c := range s.criteria {
		v, err := attrs.Require(room, c.Name, score.KindLabel)
		if err != nil {
			return score.WeightedScore{}, err
		}

		r, known := s.scale.Resolve(v.Label)
		if !known {
			slog.Warn("Unknown rating label, using default",
				"room", room, "criterion", c.Name, "label", v.Label, "default", r)
			result.Diagnostics = append(result.Diagnostics, score.Diagnostic{
				Kind:      score.UnknownRatingLabel,
				Room:      room,
				Criterion: c.Name,
				Detail:    fmt.Sprintf("label %q resolved to default %d", v.Label, r),
			})
		}

		contribution := float64(r) * c.Weight
		result.Value += contribution
		result.Terms = append(result.Terms, score.Term{
			Name:         c.Name,
			Raw:          v,
			Value:        float64(r),
			Weight:       c.Weight,
			Contribution: contribution,
		})
	}

	return result, nil
}

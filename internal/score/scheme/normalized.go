package scheme

import (
	"errors"
	"fmt"
	"math"

	"roomrank/internal/score"
)

// NormalizedName identifies the fractional-weight scheme with sensor adjustments.
const NormalizedName = "normalized"

// Criterion names of the sensor-derived terms.
const (
	TemperatureCriterion  = "HVAC Temp"
	OccupancyCriterion    = "Current Occupancy"
	AvailabilityCriterion = "Availability"
)

// weightTolerance is the accepted deviation of the weight sum from 1.0.
const weightTolerance = 0.001

// Adjustments configures the sensor-derived terms of the normalized scheme.
type Adjustments struct {
	// IdealTemperature — temperature (°C) with zero penalty.
	IdealTemperature float64 `yaml:"ideal_temperature" json:"ideal_temperature"`
	// TemperaturePenaltyRate — penalty per degree of deviation.
	TemperaturePenaltyRate float64 `yaml:"temperature_penalty_rate" json:"temperature_penalty_rate"`
	// MaxTemperaturePenalty — upper bound of the penalty; 0 leaves it unbounded.
	MaxTemperaturePenalty float64 `yaml:"max_temperature_penalty" json:"max_temperature_penalty"`
	// IdealOccupancy — head count with the full bonus.
	IdealOccupancy float64 `yaml:"ideal_occupancy" json:"ideal_occupancy"`
	// OccupancyBonusCeiling — bonus at ideal occupancy; each person away subtracts one.
	OccupancyBonusCeiling float64 `yaml:"occupancy_bonus_ceiling" json:"occupancy_bonus_ceiling"`
	// MinOccupancyBonus — lower bound of the bonus; nil leaves it unbounded (may go negative).
	MinOccupancyBonus *float64 `yaml:"min_occupancy_bonus" json:"min_occupancy_bonus,omitempty"`
}

// DefaultAdjustments returns ideal 22.0 °C with 0.1 per degree, ideal 4 people with
// a bonus of 5, both unclamped.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		IdealTemperature:       22.0,
		TemperaturePenaltyRate: 0.1,
		IdealOccupancy:         4,
		OccupancyBonusCeiling:  5,
	}
}

// TemperaturePenalty returns |temp − ideal| × rate, bounded by MaxTemperaturePenalty when set.
func (a Adjustments) TemperaturePenalty(temp float64) float64 {
	p := math.Abs(temp-a.IdealTemperature) * a.TemperaturePenaltyRate
	if a.MaxTemperaturePenalty > 0 && p > a.MaxTemperaturePenalty {
		return a.MaxTemperaturePenalty
	}
	return p
}

// OccupancyBonus returns ceiling − |occupancy − ideal|, bounded below by MinOccupancyBonus when set.
func (a Adjustments) OccupancyBonus(occupancy float64) float64 {
	b := a.OccupancyBonusCeiling - math.Abs(occupancy-a.IdealOccupancy)
	if a.MinOccupancyBonus != nil && b < *a.MinOccupancyBonus {
		return *a.MinOccupancyBonus
	}
	return b
}

// Normalized scores rooms with weights summing to 1.0:
//
//	base    = Σ value × weight   (rated criteria only)
//	penalty = TemperaturePenalty(HVAC Temp)
//	bonus   = OccupancyBonus(Current Occupancy)
//	score   = base − penalty + bonus × weight(Current Occupancy)
//
// The HVAC Temp weight is part of the sum but the penalty is applied unweighted.
type Normalized struct {
	criteria    []score.Criterion
	adjustments Adjustments
	occWeight   float64
}

// DefaultNormalizedCriteria returns the nine criteria with their fractional weights.
func DefaultNormalizedCriteria() []score.Criterion {
	return []score.Criterion{
		{Name: "Occupancy Suitability", Weight: 0.20},
		{Name: "Natural Lighting", Weight: 0.10},
		{Name: "Energy Efficiency", Weight: 0.15},
		{Name: "AV/Tech Availability", Weight: 0.10},
		{Name: "Noise Isolation", Weight: 0.05},
		{Name: "Proximity to Team Zone", Weight: 0.05},
		{Name: AvailabilityCriterion, Weight: 0.25},
		{Name: TemperatureCriterion, Weight: 0.05},
		{Name: OccupancyCriterion, Weight: 0.05},
	}
}

// NewNormalized creates the scheme. Weights must be positive and sum to 1.0;
// both sensor criteria must be declared.
func NewNormalized(criteria []score.Criterion, adj Adjustments) (*Normalized, error) {
	if len(criteria) == 0 {
		return nil, errors.New("normalized: no criteria")
	}
	if adj.MaxTemperaturePenalty < 0 {
		return nil, errors.New("normalized: max_temperature_penalty must not be negative")
	}

	s := Normalized{adjustments: adj, criteria: make([]score.Criterion, len(criteria))}
	seen := make(map[string]bool, len(criteria))
	var sum float64
	for i, c := range criteria {
		if c.Name == "" {
			return nil, fmt.Errorf("normalized: criterion %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("normalized: duplicate criterion %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight <= 0 {
			return nil, fmt.Errorf("normalized: criterion %q weight %v must be positive", c.Name, c.Weight)
		}
		if c.Name == OccupancyCriterion {
			s.occWeight = c.Weight
		}
		sum += c.Weight
		c.Kind = score.KindNumber
		s.criteria[i] = c
	}

	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("normalized: weights sum to %.4f, must sum to 1.0", sum)
	}
	for _, name := range []string{TemperatureCriterion, OccupancyCriterion} {
		if !seen[name] {
			return nil, fmt.Errorf("normalized: criterion %q must be declared", name)
		}
	}

	return &s, nil
}

func (s *Normalized) Name() string { return NormalizedName }

func (s *Normalized) Criteria() []score.Criterion {
	return append([]score.Criterion(nil), s.criteria...)
}

// Adjustments returns the configured sensor adjustments.
func (s *Normalized) Adjustments() Adjustments { return s.adjustments }

// Score computes the normalized score; see Normalized for the formula.
func (s *Normalized) Score(room string, attrs score.AttributeSet) (score.WeightedScore, error) {
	result := score.WeightedScore{
		Room:  room,
		Terms: make([]score.Term, 0, len(s.criteria)),
	}

	var base, penalty, bonus float64
	for _, c := range s.criteria {
		v, err := attrs.Require(room, c.Name, score.KindNumber)
		if err != nil {
			return score.WeightedScore{}, err
		}

		term := score.Term{Name: c.Name, Raw: v, Value: v.Number, Weight: c.Weight}
		switch c.Name {
		case TemperatureCriterion:
			penalty = s.adjustments.TemperaturePenalty(v.Number)
			term.Contribution = -penalty
		case OccupancyCriterion:
			bonus = s.adjustments.OccupancyBonus(v.Number)
			term.Contribution = bonus * c.Weight
		default:
			term.Contribution = v.Number * c.Weight
			base += term.Contribution
		}
		result.Terms = append(result.Terms, term)
	}

	result.Value = base - penalty + bonus*s.occWeight
	result.Adjustments = map[string]float64{
		score.AdjustmentBase:               base,
		score.AdjustmentTemperaturePenalty: penalty,
		score.AdjustmentOccupancyBonus:     bonus,
	}

	return result, nil
}

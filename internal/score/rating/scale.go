package rating

import "sort"

// DefaultValue is the rating used for labels missing from the scale ("medium").
const DefaultValue = 2

// Scale maps qualitative labels to integer ratings.
//
// The table is not monotonic in a single "goodness" direction: "High" is 1 while
// "Yes" is 3. Every label keeps the value its scheme assigns to it.
type Scale map[string]int

// Standard returns the rating table used by the importance scheme.
func Standard() Scale {
	return Scale{
		"High":     1,
		"Medium":   2,
		"Low":      3,
		"Yes":      3,
		"Partial":  2,
		"No":       1,
		"Quiet":    3,
		"Moderate": 2,
		"Noisy":    1,
		"Near":     3,
		"Far":      1,
	}
}

// Resolve returns the rating of label using exact, case-sensitive matching.
// For unknown labels it returns DefaultValue and false, so callers can
// report the fallback.
func (s Scale) Resolve(label string) (int, bool) {
	v, ok := s[label]
	if !ok {
		return DefaultValue, false
	}
	return v, true
}

// Labels returns every label of the scale ordered by rating, then by name.
func (s Scale) Labels() []string {
	labels := make([]string, 0, len(s))
	for l := range s {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if s[labels[i]] != s[labels[j]] {
			return s[labels[i]] < s[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

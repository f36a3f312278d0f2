package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale_Resolve_KnownLabels(t *testing.T) {
	s := Standard()

	v, ok := s.Resolve("High")
	assert.True(t, ok)
	assert.Equal(t, 1, v, "High is the lowest rating")

	v, ok = s.Resolve("Yes")
	assert.True(t, ok)
	assert.Equal(t, 3, v, "Yes is the highest rating")

	v, ok = s.Resolve("Near")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestScale_Resolve_UnknownLabelFallsBack(t *testing.T) {
	v, ok := Standard().Resolve("unknown-label")
	assert.False(t, ok, "fallback must be observable")
	assert.Equal(t, DefaultValue, v)
	assert.Equal(t, 2, v)
}

func TestScale_Resolve_IsCaseSensitive(t *testing.T) {
	v, ok := Standard().Resolve("high")
	assert.False(t, ok)
	assert.Equal(t, DefaultValue, v)
}

func TestScale_Labels_Ordered(t *testing.T) {
	s := Scale{"Yes": 3, "No": 1, "High": 1, "Partial": 2}
	assert.Equal(t, []string{"High", "No", "Partial", "Yes"}, s.Labels())
}

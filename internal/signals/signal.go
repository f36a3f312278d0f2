package signals

import (
	"context"
	"fmt"

	"roomrank/internal/score"
	"roomrank/internal/score/scheme"
)

// Static serves fixed attribute sets per room. Rooms it doesn't know get an empty set.
type Static map[string]score.AttributeSet

func (s Static) Attributes(_ context.Context, room string) (score.AttributeSet, error) {
	return s[room].Merge(nil), nil
}

// Func adapts a plain function to score.SignalProvider.
type Func func(ctx context.Context, room string) (score.AttributeSet, error)

func (f Func) Attributes(ctx context.Context, room string) (score.AttributeSet, error) {
	return f(ctx, room)
}

// Merge combines providers; values of later providers override earlier ones.
func Merge(providers ...score.SignalProvider) score.SignalProvider {
	return Func(func(ctx context.Context, room string) (score.AttributeSet, error) {
		out := make(score.AttributeSet)
		for _, p := range providers {
			attrs, err := p.Attributes(ctx, room)
			if err != nil {
				return nil, fmt.Errorf("signals for %q: %w", room, err)
			}
			for k, v := range attrs {
				out[k] = v
			}
		}
		return out, nil
	})
}

// Availability derives the Availability criterion from the meeting start time.
// Rooms without a value in the applicable band get no Availability entry.
type Availability struct {
	Table *scheme.AvailabilityTable
	Start scheme.Clock
}

func (a Availability) Attributes(_ context.Context, room string) (score.AttributeSet, error) {
	v, ok := a.Table.Lookup(room, a.Start)
	if !ok {
		return score.AttributeSet{}, nil
	}
	return score.AttributeSet{scheme.AvailabilityCriterion: score.Number(v)}, nil
}

package rank

import (
	"errors"
	"sort"
	"time"

	"roomrank/internal/score"

	"github.com/google/uuid"
)

// ErrEmptyRoomSet is returned when a ranking is requested for zero rooms.
var ErrEmptyRoomSet = errors.New("no rooms to rank")

// Ranking is the ordered result of one comparison run. Entries are sorted by
// score descending; rooms with equal scores keep their input order.
// A Ranking is never modified after Rank returns it.
type Ranking struct {
	// ID — unique identifier of the run.
	ID string `json:"id"`
	// Scheme — name of the scheme (or rule set) that produced the scores.
	Scheme string `json:"scheme"`
	// CreatedAt — time the ranking was produced.
	CreatedAt time.Time `json:"created_at"`
	// Recommended — room of the first entry, the recommendation of the run.
	Recommended string `json:"winner"`
	// Entries — rooms with their scores, best first.
	Entries []score.WeightedScore `json:"entries"`
}

// Winner returns the recommended room: the first entry.
func (r Ranking) Winner() score.WeightedScore {
	return r.Entries[0]
}

// Diagnostics returns the diagnostics of every entry in ranking order.
func (r Ranking) Diagnostics() []score.Diagnostic {
	var out []score.Diagnostic
	for _, e := range r.Entries {
		out = append(out, e.Diagnostics...)
	}
	return out
}

// Rank orders scores descending with a stable sort, so the first room in input
// order wins a tie. The input slice is not modified.
func Rank(scheme string, scores []score.WeightedScore) (Ranking, error) {
	if len(scores) == 0 {
		return Ranking{}, ErrEmptyRoomSet
	}

	entries := make([]score.WeightedScore, len(scores))
	copy(entries, scores)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	return Ranking{
		ID:          uuid.NewString(),
		Scheme:      scheme,
		CreatedAt:   time.Now().UTC(),
		Recommended: entries[0].Room,
		Entries:     entries,
	}, nil
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roomrank/internal/metrics"
	"roomrank/internal/rank"
	"roomrank/internal/score"

	"golang.org/x/sync/errgroup"
)

// DuplicateRoomError is returned when a room appears twice in one request.
type DuplicateRoomError struct {
	Room string
}

// Error returns the text description of the error.
func (e *DuplicateRoomError) Error() string {
	return "duplicate room: " + e.Room
}

// Request is the complete, immutable input of one ranking run.
type Request struct {
	// Rooms — candidate rooms; their order decides ties.
	Rooms []string
	// Scheme — scoring scheme to apply.
	Scheme score.Scheme
	// Signals — source of each room's attribute set.
	Signals score.SignalProvider
}

// Engine scores every room of a request and ranks the results.
// Runs share no state and may execute concurrently.
type Engine struct {
	concurrency int
	metrics     *metrics.Metrics
}

// New creates an engine scoring up to concurrency rooms in parallel
// (values below 1 mean one). m may be nil.
func New(concurrency int, m *metrics.Metrics) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{concurrency: concurrency, metrics: m}
}

// Run scores each room in its own goroutine, collects the results in input
// order and ranks them. The first strict error (missing or invalid criterion,
// signal failure) cancels the remaining rooms and aborts the run.
func (e *Engine) Run(ctx context.Context, req Request) (rank.Ranking, error) {
	name := req.Scheme.Name()
	started := time.Now()

	ranking, err := e.run(ctx, req)
	if err != nil {
		slog.Error("Ranking failed", "scheme", name, "rooms", req.Rooms, "error", err)
		e.metrics.ObserveError(name)
		return rank.Ranking{}, err
	}

	e.metrics.ObserveRanking(name, time.Since(started), ranking.Diagnostics())
	slog.Info("Ranking completed", "scheme", name, "id", ranking.ID,
		"winner", ranking.Winner().Room, "score", ranking.Winner().Value)
	return ranking, nil
}

func (e *Engine) run(ctx context.Context, req Request) (rank.Ranking, error) {
	if len(req.Rooms) == 0 {
		return rank.Ranking{}, rank.ErrEmptyRoomSet
	}

	seen := make(map[string]bool, len(req.Rooms))
	for _, room := range req.Rooms {
		if seen[room] {
			return rank.Ranking{}, &DuplicateRoomError{Room: room}
		}
		seen[room] = true
	}

	results := make([]score.WeightedScore, len(req.Rooms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, room := range req.Rooms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			attrs, err := req.Signals.Attributes(gctx, room)
			if err != nil {
				return err
			}
			ws, err := req.Scheme.Score(room, attrs)
			if err != nil {
				return err
			}
			results[i] = ws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rank.Ranking{}, fmt.Errorf("%s scoring: %w", req.Scheme.Name(), err)
	}

	return rank.Rank(req.Scheme.Name(), results)
}

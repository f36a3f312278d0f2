package audit

import "roomrank/internal/rank"

// Repository keeps an append-only trail of produced rankings.
type Repository interface {
	Append(client string, ranking rank.Ranking)
	Close() error
}

// Nop discards everything. Used when no audit file is configured.
type Nop struct{}

func (Nop) Append(string, rank.Ranking) {}

func (Nop) Close() error { return nil }

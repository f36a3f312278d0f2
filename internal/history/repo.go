package history

import (
	"sync"
	"time"

	"roomrank/internal/rank"
	"roomrank/internal/utils"
)

// Repository is a thread-safe store of recent rankings per client.
// Each client gets a ring buffer of fixed length. Clients that haven't
// produced a ranking for longer than the TTL are dropped by Serve.
//
// Example:
//
//	repo := history.NewRepository(10, 30*time.Minute)
//	go repo.Serve()
//	defer repo.Stop()
//	repo.Append("client-1", ranking)
type Repository struct {
	length int           // rankings kept per client
	ttl    time.Duration // idle time after which a client is dropped

	rankings map[string]*utils.RingBuffer[rank.Ranking]
	updates  map[string]time.Time // last append per client

	cleanInterval time.Duration
	done          chan struct{}
	stopOnce      sync.Once
	mu            sync.RWMutex
}

// NewRepository creates a repository keeping up to length rankings per client.
// Call Serve in a separate goroutine to start the TTL cleanup.
func NewRepository(length int, ttl time.Duration) *Repository {
	return &Repository{
		length:        length,
		ttl:           ttl,
		rankings:      make(map[string]*utils.RingBuffer[rank.Ranking]),
		updates:       make(map[string]time.Time),
		cleanInterval: time.Minute,
		done:          make(chan struct{}),
	}
}

// Append stores r as the newest ranking of client.
func (h *Repository) Append(client string, r rank.Ranking) {
	h.mu.Lock()
	buffer, found := h.rankings[client]
	if !found {
		buffer = utils.NewRingBuffer[rank.Ranking](h.length)
		h.rankings[client] = buffer
	}
	h.updates[client] = time.Now()
	h.mu.Unlock()

	buffer.Push(r)
}

// Get returns the rankings of client, oldest first.
// Returns (nil, false) if nothing is stored for the client.
func (h *Repository) Get(client string) ([]rank.Ranking, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	buffer, found := h.rankings[client]
	if !found {
		return nil, false
	}
	return buffer.ToSlice(), true
}

// Latest returns the newest ranking of client.
func (h *Repository) Latest(client string) (rank.Ranking, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	buffer, found := h.rankings[client]
	if !found {
		return rank.Ranking{}, false
	}
	return buffer.Last()
}

// Clients returns the number of clients with stored rankings.
func (h *Repository) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rankings)
}

// Serve periodically drops clients idle for longer than the TTL.
// Blocks until Stop is called:
//
//	go repo.Serve()
func (h *Repository) Serve() {
	ticker := time.NewTicker(h.cleanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			h.evict(now)
		}
	}
}

// Stop ends Serve. Safe to call more than once and before Serve.
func (h *Repository) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Repository) evict(now time.Time) {
	var outdated []string

	h.mu.RLock()
	for client, ts := range h.updates {
		if now.Sub(ts) > h.ttl {
			outdated = append(outdated, client)
		}
	}
	h.mu.RUnlock()

	if len(outdated) == 0 {
		return
	}

	h.mu.Lock()
	for _, client := range outdated {
		// re-check: the client may have appended since the scan
		if now.Sub(h.updates[client]) > h.ttl {
			delete(h.rankings, client)
			delete(h.updates, client)
		}
	}
	h.mu.Unlock()
}

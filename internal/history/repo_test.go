package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"roomrank/internal/rank"
	"roomrank/internal/score"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranking(t *testing.T, winner string) rank.Ranking {
	t.Helper()
	r, err := rank.Rank("importance", []score.WeightedScore{{Room: winner, Value: 80}})
	require.NoError(t, err)
	return r
}

func TestNewRepository(t *testing.T) {
	repo := NewRepository(5, 10*time.Minute)

	assert.Equal(t, 5, repo.length)
	assert.Equal(t, 10*time.Minute, repo.ttl)
	assert.Empty(t, repo.rankings)
	assert.Equal(t, 0, repo.Clients())
}

func TestRepository_Append(t *testing.T) {
	repo := NewRepository(2, time.Hour)

	r1, r2, r3 := ranking(t, "Room A"), ranking(t, "Room B"), ranking(t, "Room C")
	repo.Append("client1", r1)
	repo.Append("client1", r2)

	got, ok := repo.Get("client1")
	require.True(t, ok)
	assert.Equal(t, []rank.Ranking{r1, r2}, got)

	// third ranking evicts the first
	repo.Append("client1", r3)

	got, _ = repo.Get("client1")
	assert.Equal(t, []rank.Ranking{r2, r3}, got)

	latest, ok := repo.Latest("client1")
	require.True(t, ok)
	assert.Equal(t, "Room C", latest.Winner().Room)
}

func TestRepository_Get_UnknownClient(t *testing.T) {
	repo := NewRepository(3, time.Hour)

	_, ok := repo.Get("nobody")
	assert.False(t, ok)
	_, ok = repo.Latest("nobody")
	assert.False(t, ok)
}

func TestRepository_MultipleClients(t *testing.T) {
	repo := NewRepository(2, time.Hour)

	repo.Append("client1", ranking(t, "Room A"))
	repo.Append("client2", ranking(t, "Room B"))

	got1, _ := repo.Get("client1")
	got2, _ := repo.Get("client2")
	require.Len(t, got1, 1)
	require.Len(t, got2, 1)
	assert.Equal(t, "Room A", got1[0].Winner().Room)
	assert.Equal(t, "Room B", got2[0].Winner().Room)
	assert.Equal(t, 2, repo.Clients())
}

func TestRepository_ConcurrentAppend(t *testing.T) {
	repo := NewRepository(100, time.Hour)
	iterations := 200

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(client string) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				repo.Append(client, rank.Ranking{ID: fmt.Sprint(j)})
			}
		}(fmt.Sprintf("client-%d", i))
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		client := fmt.Sprintf("client-%d", i)
		got, ok := repo.Get(client)
		require.True(t, ok, client)
		assert.Len(t, got, 100)
		assert.Equal(t, fmt.Sprint(iterations-1), got[len(got)-1].ID)
	}
}

func TestRepository_Evict(t *testing.T) {
	repo := NewRepository(2, time.Minute)
	repo.Append("stale", ranking(t, "Room A"))
	repo.Append("fresh", ranking(t, "Room B"))

	repo.mu.Lock()
	repo.updates["stale"] = time.Now().Add(-2 * time.Minute)
	repo.mu.Unlock()

	repo.evict(time.Now())

	_, ok := repo.Get("stale")
	assert.False(t, ok)
	_, ok = repo.Get("fresh")
	assert.True(t, ok)
}

func TestRepository_ServeStop(t *testing.T) {
	repo := NewRepository(2, time.Millisecond)
	repo.cleanInterval = 5 * time.Millisecond
	repo.Append("client1", ranking(t, "Room A"))

	done := make(chan struct{})
	go func() {
		repo.Serve()
		close(done)
	}()

	assert.Eventually(t, func() bool { return repo.Clients() == 0 }, time.Second, 5*time.Millisecond)

	repo.Stop()
	repo.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

package metrics

import (
	"strings"
	"testing"
	"time"

	"roomrank/internal/score"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRanking(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRanking("importance", time.Millisecond, []score.Diagnostic{
		{Kind: score.UnknownRatingLabel},
		{Kind: score.UnknownRatingLabel},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankingsTotal.WithLabelValues("importance")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Diagnostics.WithLabelValues("importance", "unknown_rating_label")))
}

func TestMetrics_ObserveError(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveError("normalized")
	m.ObserveRateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankingErrors.WithLabelValues("normalized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRanking("facts", time.Second, nil)
		m.ObserveError("facts")
		m.ObserveRateLimited()
	})
}

func TestRegisterHistoryClients(t *testing.T) {
	reg := prometheus.NewRegistry()
	clients := 3
	RegisterHistoryClients(reg, func() int { return clients })

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP roomrank_history_clients Number of clients with stored rankings
# TYPE roomrank_history_clients gauge
roomrank_history_clients 3
`), "roomrank_history_clients"))

	clients = 1
	count, err := testutil.GatherAndCount(reg, "roomrank_history_clients")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

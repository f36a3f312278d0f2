package metrics

import (
	"time"

	"roomrank/internal/score"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ranking collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RankingsTotal   *prometheus.CounterVec
	RankingErrors   *prometheus.CounterVec
	RankingDuration *prometheus.HistogramVec
	Diagnostics     *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RankingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roomrank_rankings_total",
				Help: "Total number of completed rankings",
			},
			[]string{"scheme"},
		),
		RankingErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roomrank_ranking_errors_total",
				Help: "Total number of aborted rankings",
			},
			[]string{"scheme"},
		),
		RankingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roomrank_ranking_duration_seconds",
				Help:    "Ranking duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"scheme"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roomrank_diagnostics_total",
				Help: "Total number of recovered conditions (unknown labels, unknown facts)",
			},
			[]string{"scheme", "kind"},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "roomrank_rate_limited_total",
				Help: "Total number of rejected rate limited requests",
			},
		),
	}

	reg.MustRegister(m.RankingsTotal, m.RankingErrors, m.RankingDuration, m.Diagnostics, m.RateLimited)
	return m
}

// ObserveRanking records a completed ranking and its diagnostics.
func (m *Metrics) ObserveRanking(scheme string, d time.Duration, diagnostics []score.Diagnostic) {
	if m == nil {
		return
	}
	m.RankingsTotal.WithLabelValues(scheme).Inc()
	m.RankingDuration.WithLabelValues(scheme).Observe(d.Seconds())
	for _, diag := range diagnostics {
		m.Diagnostics.WithLabelValues(scheme, string(diag.Kind)).Inc()
	}
}

// ObserveError records an aborted ranking.
func (m *Metrics) ObserveError(scheme string) {
	if m == nil {
		return
	}
	m.RankingErrors.WithLabelValues(scheme).Inc()
}

// ObserveRateLimited records a rejected request.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

// RegisterHistoryClients exposes the number of clients with stored rankings,
// read from count at scrape time.
func RegisterHistoryClients(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "roomrank_history_clients",
			Help: "Number of clients with stored rankings",
		},
		func() float64 { return float64(count()) },
	))
}

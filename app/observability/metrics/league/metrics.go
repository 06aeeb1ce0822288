// Package leaguemetrics records league engine metrics.
package leaguemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeagueMetrics is what the league service reports.
type LeagueMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordTeamsCreated(ctx context.Context, count int)
	RecordPlayersCreated(ctx context.Context, count int)
	RecordServerPoll(ctx context.Context, newGames int, err error)
}

// PrometheusMetrics is the Prometheus-backed LeagueMetrics.
type PrometheusMetrics struct {
	attempts       *prometheus.CounterVec
	successes      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	teamsCreated   prometheus.Counter
	playersCreated prometheus.Counter
	polls          *prometheus.CounterVec
	polledGames    prometheus.Counter
}

// NewPrometheusMetrics registers the league collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "operation_attempts_total",
			Help:      "League operations started.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "operation_success_total",
			Help:      "League operations that completed.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "operation_failures_total",
			Help:      "League operations that failed or panicked.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "league",
			Name:      "operation_duration_seconds",
			Help:      "League operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		teamsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "teams_created_total",
			Help:      "League teams created by game commits.",
		}),
		playersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "players_created_total",
			Help:      "League players created by game commits.",
		}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "server_polls_total",
			Help:      "Game server polls by outcome.",
		}, []string{"outcome"}),
		polledGames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "server_new_games_total",
			Help:      "Finished server games seen for the first time.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.attempts, m.successes, m.failures, m.duration,
		m.teamsCreated, m.playersCreated, m.polls, m.polledGames,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordTeamsCreated(_ context.Context, count int) {
	m.teamsCreated.Add(float64(count))
}

func (m *PrometheusMetrics) RecordPlayersCreated(_ context.Context, count int) {
	m.playersCreated.Add(float64(count))
}

func (m *PrometheusMetrics) RecordServerPoll(_ context.Context, newGames int, err error) {
	if err != nil {
		m.polls.WithLabelValues("error").Inc()
		return
	}
	m.polls.WithLabelValues("ok").Inc()
	m.polledGames.Add(float64(newGames))
}

// NoOpMetrics discards every measurement.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordTeamsCreated(context.Context, int)                        {}
func (NoOpMetrics) RecordPlayersCreated(context.Context, int)                      {}
func (NoOpMetrics) RecordServerPoll(context.Context, int, error)                   {}

var (
	_ LeagueMetrics = (*PrometheusMetrics)(nil)
	_ LeagueMetrics = NoOpMetrics{}
)

package leaguemetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "CommitGame")
	m.RecordOperationAttempt(ctx, "CommitGame")
	m.RecordOperationSuccess(ctx, "CommitGame")
	m.RecordOperationFailure(ctx, "CommitGame")
	m.RecordOperationDuration(ctx, "CommitGame", 20*time.Millisecond)
	m.RecordTeamsCreated(ctx, 2)
	m.RecordPlayersCreated(ctx, 5)
	m.RecordServerPoll(ctx, 3, nil)
	m.RecordServerPoll(ctx, 0, errors.New("offline"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("CommitGame")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("CommitGame")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("CommitGame")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.teamsCreated))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.playersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.polledGames))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg)
	require.Error(t, err)
}

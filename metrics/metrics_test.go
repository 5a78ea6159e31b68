package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	registry := NewRegistry()
	m := NewPrometheusMetrics(registry).(*prometheusMetrics)

	m.RecordBracketBuilt("DoubleElimination", 8, 5, 3*time.Millisecond)
	m.RecordBracketBuilt("DoubleElimination", 14, 0, time.Millisecond)
	m.RecordBracketBuildError("SingleElimination")
	m.RecordMatchResolved("lower")
	m.RecordMatchResolved("lower")
	m.RecordTournamentCompleted("DoubleElimination")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bracketsBuilt.WithLabelValues("DoubleElimination")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.buildErrors.WithLabelValues("SingleElimination")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.matchesElided))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.matchesResolved.WithLabelValues("lower")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tournamentsCompleted.WithLabelValues("DoubleElimination")))

	srv := httptest.NewServer(Handler(registry))
	t.Cleanup(srv.Close)
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "tournament_brackets_brackets_built_total")
	assert.Contains(t, string(body), "tournament_brackets_matches_resolved_total")
	assert.Contains(t, string(body), "go_goroutines")
}

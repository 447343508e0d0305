package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/metrics"
	"github.com/warp/lease-engine/renewal"
)

func TestObserveRun(t *testing.T) {
	m := metrics.New()
	result, err := renewal.Optimize([]renewal.LeaseRecord{
		{UnitNumber: 1, LeaseEndDate: "2024-01-15"},
		{UnitNumber: 2, LeaseEndDate: "2024-01-15"},
	}, 0)
	require.NoError(t, err)

	m.ObserveRun(result, 0, time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry, "lease_engine_fallbacks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "lease_engine_runs_total 1")
	assert.Contains(t, body, "lease_engine_leases_total 2")
	assert.Contains(t, body, "lease_engine_fallbacks_total 2")
	assert.Contains(t, body, "lease_engine_last_run_peak_load 2")
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Health(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	SessionsOpened.WithLabelValues("manual").Inc()
	UseCaseTotal.WithLabelValues("checkin", "true").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `attend_sessions_opened_total{source="manual"}`)
	assert.Contains(t, string(body), `attend_use_case_total{success="true",use_case="checkin"}`)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(AggregationStoreErrors)
	AggregationStoreErrors.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AggregationStoreErrors))
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector("test", prometheus.NewRegistry(), nil)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.httpRequestsTotal)
	assert.NotNil(t, collector.generationsTotal)
	assert.NotNil(t, collector.pollsTotal)
}

func TestCollector_RecordGeneration(t *testing.T) {
	collector := NewCollector("test", nil, nil)

	collector.RecordGeneration(OutcomeSuccess, 12*time.Second)
	collector.RecordGeneration(OutcomeSuccess, 8*time.Second)
	collector.RecordGeneration(OutcomeJobFailed, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.generationsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.generationsTotal.WithLabelValues(OutcomeJobFailed)))
}

func TestCollector_RecordPollAndInflight(t *testing.T) {
	collector := NewCollector("test", nil, nil)

	collector.RecordPoll("pending")
	collector.RecordPoll("pending")
	collector.GenerationStarted()
	collector.GenerationStarted()
	collector.GenerationFinished()

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.pollsTotal.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.generationInflight))
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector("test", nil, nil)

	collector.RecordHTTPRequest("POST", "/generate-video", 200, 100*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("POST", "/generate-video", "200")))
	assert.Greater(t, testutil.CollectAndCount(collector.httpRequestDuration), 0)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector

	assert.NotPanics(t, func() {
		collector.RecordGeneration(OutcomeError, time.Second)
		collector.RecordPoll("pending")
		collector.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		collector.GenerationStarted()
		collector.GenerationFinished()
	})
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector("videorelay", nil, nil)
	collector.RecordGeneration(OutcomeSuccess, time.Second)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `videorelay_generations_total{outcome="success"} 1`)
}

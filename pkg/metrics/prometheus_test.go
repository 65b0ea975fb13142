package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"SignalForge/internal/domain/models"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordFinalSignal("XRPUSDT", models.FinalSignal{Direction: models.Short, Confidence: 72.5})
	r.RecordIndicatorFailure("1H", "rsi")
	r.RecordIndicatorFailure("1H", "rsi")
	r.RecordMissingTimeframe("4H")
	r.ObserveHTTP("/api/signal", 0.01, true)

	assert.Equal(t, -1.0, testutil.ToFloat64(r.finalDirection.WithLabelValues("XRPUSDT")))
	assert.Equal(t, 72.5, testutil.ToFloat64(r.finalConfidence.WithLabelValues("XRPUSDT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signalsTotal.WithLabelValues("XRPUSDT", "SHORT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.indicatorFailures.WithLabelValues("1H", "rsi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.missingTimeframes.WithLabelValues("4H")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpErrors.WithLabelValues("/api/signal")))
}

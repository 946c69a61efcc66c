package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestScannerMetrics(t *testing.T) {
	m := NewScannerMetrics("test_arbwatch")
	assert.NotNil(t, m)

	m.Cycles.Inc()
	m.Cycles.Inc()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Cycles))

	m.Opportunities.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Opportunities))

	m.QuoteErrors.WithLabelValues("UniswapV3", "buy").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QuoteErrors.WithLabelValues("UniswapV3", "buy")))

	m.BestNet.Set(10.46)
	assert.Equal(t, 10.46, testutil.ToFloat64(m.BestNet))

	// Histograms only need to accept observations.
	m.QuoteLatency.Observe(0.1)
	assert.NotNil(t, m.QuoteLatency)
}

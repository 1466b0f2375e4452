package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		BookingOperationsTotal,
		TxRetriesTotal,
		TxRetriesExhaustedTotal,
		LeaderSuccessionsTotal,
		DBQueryDuration,
		DBErrorsTotal,
		RPCRequestsTotal,
		RPCRequestDuration,
		RateLimitedTotal,
	}

	for _, c := range collectors {
		desc := make(chan *prometheus.Desc, 1)
		c.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestCounterVecs(t *testing.T) {
	tests := []struct {
		name   string
		vec    *prometheus.CounterVec
		labels []string
	}{
		{"booking operations", BookingOperationsTotal, []string{"test_op", "ok"}},
		{"tx retries", TxRetriesTotal, []string{"test_op"}},
		{"tx exhausted", TxRetriesExhaustedTotal, []string{"test_op"}},
		{"successions", LeaderSuccessionsTotal, []string{"test_result"}},
		{"rpc requests", RPCRequestsTotal, []string{"/test", "OK"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.vec.WithLabelValues(tt.labels...)
			before := testutil.ToFloat64(c)
			c.Inc()
			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRateLimitedCounter(t *testing.T) {
	before := testutil.ToFloat64(RateLimitedTotal)
	RateLimitedTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RateLimitedTotal))
}

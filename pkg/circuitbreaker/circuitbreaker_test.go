package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/books-api/pkg/metrics"
)

// TestCircuitBreaker_ClosedState 测试关闭状态（正常）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test-closed", Config{
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}

	assert.Equal(t, "CLOSED", cb.State())
	assert.Equal(t, float64(10), testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-closed", "success")))
}

// TestCircuitBreaker_OpenState 测试打开状态（熔断）
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := NewCircuitBreaker("test-open", Config{
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	})

	failure := errors.New("redis unavailable")
	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return failure })
		assert.ErrorIs(t, err, failure)
	}

	assert.Equal(t, "OPEN", cb.State())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")))

	// 熔断后请求不再执行
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断打开时不应执行请求")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-open", "rejected")))
}

// TestCircuitBreaker_HalfOpenRecovery 测试半开状态恢复
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test-recovery", Config{
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             50 * time.Millisecond,
		ConsecutiveFailures: 1,
	})

	_ = cb.Execute(func() error { return errors.New("boom") })
	require.Equal(t, "OPEN", cb.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, "HALF_OPEN", cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, "CLOSED", cb.State())
}

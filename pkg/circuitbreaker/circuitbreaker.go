// Package circuitbreaker 熔断器
//
// 基于sony/gobreaker实现三态熔断（CLOSED → OPEN → HALF_OPEN → CLOSED），
// 并把状态变化和请求结果上报到Prometheus。
//
// 本项目中熔断器保护的是Redis缓存：Redis故障时熔断打开，
// 读请求直接回源数据库，不再等待Redis超时。
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/xiebiao/books-api/pkg/metrics"
)

// ErrOpenState 熔断器打开（或半开状态请求数已满），请求被拒绝
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态允许通过的最大请求数
	MaxRequests uint32

	// Interval CLOSED状态下统计窗口的周期，到期清零计数
	Interval time.Duration

	// Timeout OPEN状态持续时间，到期后进入HALF_OPEN
	Timeout time.Duration

	// ConsecutiveFailures 连续失败多少次触发熔断
	ConsecutiveFailures uint32
}

// DefaultConfig 默认配置：连续失败5次熔断，30秒后尝试恢复
func DefaultConfig() Config {
	return Config{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreaker 带指标上报的熔断器
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, config Config) *CircuitBreaker {
	metrics.InitMetrics()

	threshold := config.ConsecutiveFailures
	if threshold == 0 {
		threshold = DefaultConfig().ConsecutiveFailures
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, stateValue(to))
		},
	}

	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, stateValue(gobreaker.StateClosed))

	return &CircuitBreaker{
		name: name,
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Execute 在熔断器保护下执行请求
// 熔断打开时直接返回ErrOpenState，不调用req
func (b *CircuitBreaker) Execute(req func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, req()
	})

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "rejected"
		err = ErrOpenState
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": b.name, "result": result})

	return err
}

// State 当前状态：CLOSED / OPEN / HALF_OPEN
func (b *CircuitBreaker) State() string {
	switch b.cb.State() {
	case gobreaker.StateClosed:
		return "CLOSED"
	case gobreaker.StateOpen:
		return "OPEN"
	case gobreaker.StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// stateValue 指标取值：0=CLOSED, 1=OPEN, 2=HALF_OPEN
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

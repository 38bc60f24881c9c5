package xbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// State 熔断器状态
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// Counts 熔断器统计计数
type Counts = gobreaker.Counts

// Breaker 熔断器，并发安全
type Breaker struct {
	name          string
	threshold     uint32
	timeout       time.Duration
	interval      time.Duration
	maxRequests   uint32
	isSuccessful  func(err error) bool
	onStateChange func(name string, from, to State)

	cb *gobreaker.CircuitBreaker[any]
}

// Option 熔断器配置选项
type Option func(*Breaker)

// WithThreshold 连续失败多少次后熔断，0 忽略
func WithThreshold(n uint32) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithTimeout 打开状态持续多久后进入半开，非正数忽略
func WithTimeout(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithInterval 关闭状态下清空计数的周期，0 表示不清空
func WithInterval(d time.Duration) Option {
	return func(b *Breaker) { b.interval = max(d, 0) }
}

// WithMaxRequests 半开状态允许通过的请求数，0 忽略
func WithMaxRequests(n uint32) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.maxRequests = n
		}
	}
}

// WithSuccessPolicy 自定义哪些结果计为成功，例如把 4xx 视为成功以免误熔断
func WithSuccessPolicy(f func(err error) bool) Option {
	return func(b *Breaker) { b.isSuccessful = f }
}

// WithOnStateChange 状态变化回调
func WithOnStateChange(f func(name string, from, to State)) Option {
	return func(b *Breaker) { b.onStateChange = f }
}

// NewBreaker 创建熔断器
func NewBreaker(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:        name,
		threshold:   5,
		timeout:     30 * time.Second,
		maxRequests: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	threshold := b.threshold
	st := gobreaker.Settings{
		Name:        b.name,
		MaxRequests: b.maxRequests,
		Interval:    b.interval,
		Timeout:     b.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: b.isSuccessful,
	}
	if b.onStateChange != nil {
		st.OnStateChange = b.onStateChange
	}
	b.cb = gobreaker.NewCircuitBreaker[any](st)
	return b
}

// Execute 在熔断保护下执行 fn。ctx 已结束时不执行并直接返回其错误。
func Execute[T any](ctx context.Context, b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil {
		return zero, ErrNilBreaker
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, wrapBreakerError(err, b.name)
	}
	typed, _ := result.(T)
	return typed, nil
}

// Name 返回熔断器名称
func (b *Breaker) Name() string { return b.name }

// State 返回当前状态
func (b *Breaker) State() State { return b.cb.State() }

// Counts 返回当前统计
func (b *Breaker) Counts() Counts { return b.cb.Counts() }

package xretry

import (
	"context"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// Retryer 基于 retry-go 的重试执行器，可被多个 goroutine 共享。
type Retryer struct {
	maxRetries int
	backoff    BackoffPolicy
	onRetry    func(attempt int, err error)
}

// RetryerOption 执行器配置选项
type RetryerOption func(*Retryer)

// WithMaxRetries 设置首次尝试之后的最大重试次数，负数视为 0
func WithMaxRetries(n int) RetryerOption {
	return func(r *Retryer) { r.maxRetries = max(n, 0) }
}

// WithBackoff 设置退避策略，nil 忽略
func WithBackoff(p BackoffPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.backoff = p
		}
	}
}

// WithOnRetry 设置重试回调，attempt 为即将进行的重试序号（从 1 开始）
func WithOnRetry(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) { r.onRetry = f }
}

// NewRetryer 创建重试执行器。
// 默认重试 3 次，翻倍退避，初始延迟 1s。
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := &Retryer{
		maxRetries: 3,
		backoff:    NewDoublingBackoff(time.Second),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// MaxRetries 返回最大重试次数
func (r *Retryer) MaxRetries() int { return r.maxRetries }

// Backoff 返回退避策略
func (r *Retryer) Backoff() BackoffPolicy { return r.backoff }

// Do 执行 fn，失败时按策略重试，返回最后一次的错误。
// ctx 取消时停止等待并返回。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return ErrNilRetryer
	}
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}
	return retry.New(r.options(ctx)...).Do(func() error {
		return fn(ctx)
	})
}

// DoWithResult 带返回值的 [Retryer.Do]。
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	switch {
	case r == nil:
		return zero, ErrNilRetryer
	case ctx == nil:
		return zero, ErrNilContext
	case fn == nil:
		return zero, ErrNilFunc
	}
	return retry.NewWithData[T](r.options(ctx)...).Do(func() (T, error) {
		return fn(ctx)
	})
}

func (r *Retryer) options(ctx context.Context) []Option {
	backoff := r.backoff
	if backoff == nil {
		backoff = NoBackoff{}
	}

	opts := []Option{
		Context(ctx),
		Attempts(uint(r.maxRetries) + 1),
		RetryIf(ShouldRetry),
		DelayType(ToDelayType(backoff)),
		LastErrorOnly(true),
	}
	if r.onRetry != nil {
		onRetry := r.onRetry
		// retry-go 的 OnRetry 从 0 计数
		opts = append(opts, OnRetry(func(n uint, err error) {
			onRetry(uintToInt(n)+1, err)
		}))
	}
	return opts
}

func uintToInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

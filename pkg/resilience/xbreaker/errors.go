package xbreaker

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

// ErrNilBreaker 传入的 Breaker 为 nil
var ErrNilBreaker = errors.New("xbreaker: breaker cannot be nil")

// BreakerError 熔断器拒绝调用时返回的错误，不可重试
type BreakerError struct {
	Err   error
	Name  string
	State State
}

func (e *BreakerError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("breaker %s: %v", e.Name, e.Err)
	}
	return e.Err.Error()
}

func (e *BreakerError) Unwrap() error { return e.Err }

// Retryable 熔断错误不应重试
func (e *BreakerError) Retryable() bool { return false }

// wrapBreakerError 只包装 gobreaker 直接返回的 sentinel，业务错误原样返回
func wrapBreakerError(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState) && !isBreakerError(err):
		return &BreakerError{Err: err, Name: name, State: StateOpen}
	case errors.Is(err, gobreaker.ErrTooManyRequests) && !isBreakerError(err):
		return &BreakerError{Err: err, Name: name, State: StateHalfOpen}
	default:
		return err
	}
}

func isBreakerError(err error) bool {
	var be *BreakerError
	return errors.As(err, &be)
}

// IsOpen 报告 err 是否因熔断器打开而产生
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState)
}

// IsBreakerError 报告 err 是否为熔断器拒绝（打开或半开请求过多）
func IsBreakerError(err error) bool {
	return IsOpen(err) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

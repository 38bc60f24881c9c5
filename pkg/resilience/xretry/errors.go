package xretry

import (
	"errors"

	retry "github.com/avast/retry-go/v5"
)

var (
	ErrNilRetryer = errors.New("xretry: nil retryer")
	ErrNilContext = errors.New("xretry: nil context")
	ErrNilFunc    = errors.New("xretry: nil function")
)

// RetryableError 自带可重试标记的错误
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 永久性错误，重试不会改变结果
type PermanentError struct {
	Err error
}

// NewPermanentError 将 err 标记为永久性错误
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error   { return e.Err }
func (e *PermanentError) Retryable() bool { return false }

// TemporaryError 临时性错误
type TemporaryError struct {
	Err error
}

// NewTemporaryError 将 err 标记为临时性错误
func NewTemporaryError(err error) *TemporaryError {
	return &TemporaryError{Err: err}
}

func (e *TemporaryError) Error() string {
	if e.Err == nil {
		return "temporary error"
	}
	return e.Err.Error()
}

func (e *TemporaryError) Unwrap() error   { return e.Err }
func (e *TemporaryError) Retryable() bool { return true }

// IsRetryable 报告 err 是否可重试：nil 不需要重试，
// 实现 [RetryableError] 的按其标记，其余错误默认可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}

// IsPermanent 报告 err 是否被标记为永久性错误
func IsPermanent(err error) bool {
	return err != nil && !IsRetryable(err)
}

// ShouldRetry 综合 retry-go 的 Unrecoverable 标记与 [RetryableError] 判断是否重试
func ShouldRetry(err error) bool {
	return retry.IsRecoverable(err) && IsRetryable(err)
}

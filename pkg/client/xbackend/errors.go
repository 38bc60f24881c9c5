package xbackend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyBaseURL    = errors.New("xbackend: base url is required")
	ErrUnknownResource = errors.New("xbackend: unknown resource")
	ErrEmptyID         = errors.New("xbackend: id is required")
	ErrCircuitOpen     = errors.New("xbackend: circuit open")
	ErrNotFound        = errors.New("xbackend: not found")
	ErrServerError     = errors.New("xbackend: server error")
	ErrDecodeResponse  = errors.New("xbackend: decode response failed")
)

// APIError 后端返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("xbackend: status=%d, message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("xbackend: status=%d", e.StatusCode)
}

// Retryable 5xx 与 429 可重试，其余 4xx 不可重试
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return target == ErrNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrServerError
	}
	return false
}

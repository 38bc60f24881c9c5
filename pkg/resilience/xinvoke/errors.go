package xinvoke

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled 调用链被取消或被新的 Execute 取代，仅由 [Executor.Operation] 返回
	ErrCancelled = errors.New("xinvoke: invocation cancelled")

	// ErrNilOperation 执行器未包装任何操作
	ErrNilOperation = errors.New("xinvoke: nil operation")

	// ErrOperationPanic 被包装的操作发生 panic
	ErrOperationPanic = errors.New("xinvoke: operation panicked")

	// 配置校验错误
	ErrInvalidMaxRetries = errors.New("xinvoke: max_retries must be >= 0")
	ErrInvalidRetryDelay = errors.New("xinvoke: retry_delay must be >= 0")
)

// TerminalError 重试耗尽后的终态错误，Error() 与最后一次失败的消息一致。
type TerminalError struct {
	// Attempts 实际执行次数
	Attempts int
	Err      error
}

func (e *TerminalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("xinvoke: failed after %d attempts", e.Attempts)
	}
	return e.Err.Error()
}

func (e *TerminalError) Unwrap() error { return e.Err }

package xfanout

import "errors"

var (
	// ErrNilOperation 调用未设置 Operation
	ErrNilOperation = errors.New("xfanout: nil operation")

	// ErrCallPanic 调用或其回调发生 panic
	ErrCallPanic = errors.New("xfanout: call panicked")
)

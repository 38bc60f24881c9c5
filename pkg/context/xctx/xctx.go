package xctx

import "errors"

// contextKey 包私有的 context key 类型，字符串值便于调试时识别。
type contextKey string

const (
	keyChainID = contextKey("xctx:chain_id")
	keyBatchID = contextKey("xctx:batch_id")
	keyCallID  = contextKey("xctx:call_id")
	keyAttempt = contextKey("xctx:attempt")
)

// 日志属性 Key 常量（下划线分隔，与 OpenTelemetry 语义约定一致）。
const (
	KeyChainID = "chain_id"
	KeyBatchID = "batch_id"
	KeyCallID  = "call_id"
	KeyAttempt = "attempt"

	// invokeFieldCount 调用链字段数量，用于 slog 属性预分配
	invokeFieldCount = 4
)

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrMissingChainID chain_id 缺失
	ErrMissingChainID = errors.New("xctx: missing chain_id")
)

package xctx

import (
	"context"

	"github.com/google/uuid"
)

// WithChainID 将调用链 ID 注入 context。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithChainID(ctx context.Context, id string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyChainID, id), nil
}

// ChainID 从 context 提取调用链 ID，不存在返回空字符串。
func ChainID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyChainID).(string); ok {
		return v
	}
	return ""
}

// RequireChainID 从 context 获取调用链 ID，不存在返回 ErrMissingChainID。
func RequireChainID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := ChainID(ctx)
	if v == "" {
		return "", ErrMissingChainID
	}
	return v, nil
}

// EnsureChainID 确保 context 中存在调用链 ID。
//
// 已存在时原样返回；否则生成 UUIDv4 并注入。
func EnsureChainID(ctx context.Context) (context.Context, string, error) {
	if ctx == nil {
		return nil, "", ErrNilContext
	}
	if v := ChainID(ctx); v != "" {
		return ctx, v, nil
	}
	id := uuid.NewString()
	return context.WithValue(ctx, keyChainID, id), id, nil
}

// WithBatchID 将批次 ID 注入 context。
func WithBatchID(ctx context.Context, id string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyBatchID, id), nil
}

// BatchID 从 context 提取批次 ID，不存在返回空字符串。
func BatchID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyBatchID).(string); ok {
		return v
	}
	return ""
}

// NewBatch 为 ctx 生成新的批次 ID。
//
// 与 EnsureChainID 不同，批次 ID 总是重新生成：嵌套批次各自独立计数。
func NewBatch(ctx context.Context) (context.Context, string, error) {
	if ctx == nil {
		return nil, "", ErrNilContext
	}
	id := uuid.NewString()
	return context.WithValue(ctx, keyBatchID, id), id, nil
}

// WithCallID 将批次内调用 ID 注入 context。
func WithCallID(ctx context.Context, id string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyCallID, id), nil
}

// CallID 从 context 提取调用 ID，不存在返回空字符串。
func CallID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyCallID).(string); ok {
		return v
	}
	return ""
}

// WithAttempt 将尝试序号注入 context，被包装的操作可据此判断是否处于重试中。
func WithAttempt(ctx context.Context, attempt int) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyAttempt, attempt), nil
}

// Attempt 从 context 提取尝试序号，不在调用链中返回 0。
func Attempt(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(keyAttempt).(int); ok {
		return v
	}
	return 0
}

package xctx

import (
	"context"
	"log/slog"
)

// AppendInvokeAttrs 将 context 中的调用链信息追加到现有切片。
// 只追加非空字段，传入预分配切片可避免热路径堆分配。
func AppendInvokeAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := ChainID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyChainID, v))
	}
	if v := BatchID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyBatchID, v))
	}
	if v := CallID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyCallID, v))
	}
	if v := Attempt(ctx); v > 0 {
		attrs = append(attrs, slog.Int(KeyAttempt, v))
	}
	return attrs
}

// InvokeAttrs 从 context 提取调用链信息，全部为空时返回 nil。
// 每次调用会分配新切片，热路径请使用 AppendInvokeAttrs。
func InvokeAttrs(ctx context.Context) []slog.Attr {
	attrs := AppendInvokeAttrs(make([]slog.Attr, 0, invokeFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

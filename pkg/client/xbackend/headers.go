package xbackend

import (
	"context"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/omeyang/xinvoke/pkg/context/xctx"
)

// 调用链标识请求头，后端可据此关联同一次 Execute 的多次尝试
const (
	HeaderChainID = "X-Chain-ID"
	HeaderBatchID = "X-Batch-ID"
	HeaderCallID  = "X-Call-ID"
	HeaderAttempt = "X-Attempt"
)

// injectHeaders 写入调用链标识与 W3C trace context，缺失的字段不写
func injectHeaders(ctx context.Context, h http.Header) {
	if id := xctx.ChainID(ctx); id != "" {
		h.Set(HeaderChainID, id)
	}
	if id := xctx.BatchID(ctx); id != "" {
		h.Set(HeaderBatchID, id)
	}
	if id := xctx.CallID(ctx); id != "" {
		h.Set(HeaderCallID, id)
	}
	if n := xctx.Attempt(ctx); n > 0 {
		h.Set(HeaderAttempt, strconv.Itoa(n))
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
}

package xinvoke

import "context"

// token 单条调用链的取消令牌，基于 context 实现。
// 被包装的操作收到的就是 token.ctx，支持 context 的操作可以协作式提前退出。
type token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newToken(parent context.Context) *token {
	ctx, cancel := context.WithCancel(parent)
	return &token{ctx: ctx, cancel: cancel}
}

// Valid 报告令牌是否仍有效：未被取消、未被取代，且调用方 context 未结束
func (t *token) Valid() bool {
	return t != nil && t.ctx.Err() == nil
}

// Cancel 使令牌失效，可重复调用
func (t *token) Cancel() {
	if t != nil {
		t.cancel()
	}
}

// Done 令牌失效时关闭
func (t *token) Done() <-chan struct{} {
	return t.ctx.Done()
}

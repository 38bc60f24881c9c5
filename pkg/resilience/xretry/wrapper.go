package xretry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// retry-go 类型与选项的别名，调用方无需直接导入 retry-go。
type (
	Option        = retry.Option
	DelayTypeFunc = retry.DelayTypeFunc
	DelayContext  = retry.DelayContext
)

var (
	Attempts      = retry.Attempts
	DelayType     = retry.DelayType
	OnRetry       = retry.OnRetry
	RetryIf       = retry.RetryIf
	Context       = retry.Context
	LastErrorOnly = retry.LastErrorOnly

	Unrecoverable = retry.Unrecoverable
	IsRecoverable = retry.IsRecoverable
)

// Do 以 retry-go 选项执行 fn。
// 默认跳过 Unrecoverable 和 PermanentError，opts 中的 RetryIf 会覆盖该行为。
//
//	err := xretry.Do(ctx, ping, xretry.Attempts(3), xretry.DelayType(xretry.ToDelayType(xretry.NoBackoff{})))
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	return retry.New(defaultOpts(ctx, opts)...).Do(fn)
}

// DoWithData 带返回值的 [Do]
func DoWithData[T any](ctx context.Context, fn func() (T, error), opts ...Option) (T, error) {
	return retry.NewWithData[T](defaultOpts(ctx, opts)...).Do(fn)
}

func defaultOpts(ctx context.Context, opts []Option) []Option {
	all := make([]Option, 0, len(opts)+2)
	all = append(all, Context(ctx), RetryIf(ShouldRetry))
	return append(all, opts...)
}

// ToDelayType 将 BackoffPolicy 适配为 retry-go 的 DelayTypeFunc。
// retry-go v5 传入的 n 从 1 开始，与 NextDelay 一致。
func ToDelayType(policy BackoffPolicy) DelayTypeFunc {
	if policy == nil {
		policy = NoBackoff{}
	}
	return func(n uint, _ error, _ DelayContext) time.Duration {
		return policy.NextDelay(uintToInt(n))
	}
}

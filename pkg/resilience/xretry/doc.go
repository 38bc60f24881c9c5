// Package xretry 提供退避策略、错误分类以及基于 retry-go 的重试执行器。
//
// # 退避
//
// [Delay] 是纯函数：base * 2^attemptIndex，溢出时饱和到最大 time.Duration。
// [BackoffPolicy] 的 attempt 从 1 开始，内置实现：
//   - DoublingBackoff：第 k 次重试等待 Delay(k-1, base)，无抖动，xinvoke 的默认策略
//   - ExponentialBackoff：可配置乘数、上限和抖动
//   - FixedBackoff：固定延迟
//   - NoBackoff：无延迟
//
// # 重试执行
//
// [Retryer] 用于 xfanout 中单个批次调用的自动重试：
//
//	r := xretry.NewRetryer(xretry.WithMaxRetries(2), xretry.WithBackoff(xretry.NewDoublingBackoff(200*time.Millisecond)))
//	data, err := xretry.DoWithResult(ctx, r, fetch)
//
// 简单场景可以直接使用 retry-go 风格的 [Do] / [DoWithData]。
//
// # 错误分类
//
//   - NewPermanentError(err)：不应重试，例如 HTTP 4xx
//   - NewTemporaryError(err)：应当重试
//   - Unrecoverable(err)：retry-go 原生的不可恢复标记
//
// [ShouldRetry] 综合以上三种标记判断一个错误是否值得重试，xinvoke 的重试循环同样使用它。
package xretry

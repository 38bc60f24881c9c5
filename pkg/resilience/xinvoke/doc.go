// Package xinvoke 为单个不可靠操作提供带退避重试、取消和手动重放的执行器。
//
// # 基本用法
//
//	exec := xinvoke.New(fetchStudent,
//	    xinvoke.WithMaxRetries(3),
//	    xinvoke.WithRetryDelay(time.Second),
//	    xinvoke.WithNotifier(notifier),
//	)
//	student, ok := exec.Execute(ctx, "s-42")
//	if !ok {
//	    state := exec.State() // 终态失败时 state.Err 非 nil；取消时 Err 保持不变
//	}
//
// # 调用链
//
// 每次 Execute 开启一条新的调用链并签发新的取消令牌，旧链的令牌随即失效。
// 失效令牌对应的后续步骤（操作返回、退避等待结束）不再修改状态，
// 因此只有最近一次 Execute 的结果会反映到 State 上。
//
// 永久失败的操作共执行 MaxRetries+1 次，第 k 次重试前等待 RetryDelay*2^(k-1)。
// 被 xretry.NewPermanentError 或 xretry.Unrecoverable 标记的错误立即终止重试。
//
// # 与 xfanout 配合
//
// [Executor.Operation] 把执行器适配为 xfanout 批次中的一个调用，
// 为批次里的单个调用提供重试能力。
package xinvoke

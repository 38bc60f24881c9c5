// Package xfanout 并发执行一批相互独立的调用，隔离单个调用的失败。
//
// 批次内所有调用同时启动（默认不限并发），等待全部结束后按输入顺序返回记录，
// 不会因为某个调用失败而提前返回：
//
//	orch := xfanout.New[[]xbackend.Item](xfanout.WithLogger(logger))
//	records := orch.ExecuteMultiple(ctx, []xfanout.Call[[]xbackend.Item]{
//	    {ID: "students", Operation: listStudents},
//	    {ID: "coaches", Operation: listCoaches, Retryer: xretry.NewRetryer(xretry.WithMaxRetries(2))},
//	    {ID: "payments", Operation: paymentsExec.Operation("payments")},
//	})
//
// 编排器本身不做重试。单个调用需要重试时，设置 Call.Retryer，
// 或者传入 xinvoke.Executor.Operation 返回的函数。
//
// CancelAll 只清理编排器的簿记并结束 Loading，不会中断已经发出的调用；
// 需要中断时由调用方取消传给 ExecuteMultiple 的 ctx。
package xfanout

// Package xctx 提供调用链相关标识在 context 上的存取能力。
//
// 每次 Execute 调用链、每个 ExecuteMultiple 批次以及批次中的每个调用
// 都有自己的标识，通过 context 向下传递，供日志（xlog 的 EnrichHandler）
// 和观测（xmetrics）自动提取。
//
// # 字段
//
//   - chain_id : 一次 Execute/Retry 调用链的标识
//   - batch_id : 一次 ExecuteMultiple 批次的标识
//   - call_id  : 批次内单个调用的业务 ID
//   - attempt  : 调用链内的尝试序号（从 1 开始）
//
// # 命名约定
//
//	WithXxx(ctx, value)    - 注入：将 value 写入 context
//	Xxx(ctx)               - 读取：缺失时返回零值
//	EnsureXxx(ctx)         - 确保存在：已存在则原样返回，否则生成新值
//
// xctx 是纯粹的存取层，不校验字段格式。
package xctx

// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xmetrics: 统一观测接口（追踪与指标），附 OpenTelemetry 实现
//   - xrotate: 日志文件轮转
//
// 日志与跨度自动携带 context 中的 chain_id、batch_id、call_id。
package observability

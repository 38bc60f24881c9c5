// Package xmetrics 提供统一的观测抽象（Observer/Span）以及 OpenTelemetry 实现。
//
// xinvoke 为每次尝试开启一个跨度（operation=xinvoke.attempt），xfanout 为批次中的
// 每个调用开启一个跨度（operation=xfanout.call）。未配置 Observer 时使用 [NoopObserver]。
//
// OTel 实现同时记录两项指标：
//   - xinvoke.operation.total：按 component/operation/status 计数
//   - xinvoke.operation.duration：耗时直方图（秒）
//
// 跨度会自动带上 context 中的 chain_id、batch_id、call_id（见 xctx）。
package xmetrics

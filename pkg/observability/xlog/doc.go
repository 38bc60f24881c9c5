// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、轮转）
//   - 自动从 context 注入 chain_id、batch_id、call_id、attempt（EnrichHandler，默认启用）
//   - 动态级别调整
//   - 全局 Logger 便利函数
//
// # 创建 Logger
//
// Builder 采用 first-error-wins：遇到第一个配置错误后，Build 返回该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xinvokectl.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 全局 Logger
//
// 适用于命令行工具等简单场景，库代码通过 Option 注入 Logger。
// [Default] 惰性初始化（stderr、Info 级别、text 格式）。
//
// # 便捷属性
//
// [Err]、[Duration]、[Component]、[Operation]、[Attempt]、[Delay]、[CallID]、[Count]。
package xlog

// Package xbreaker 基于 sony/gobreaker 为后端调用提供熔断保护。
//
// 熔断器打开时调用直接失败并返回 [*BreakerError]，该错误实现
// Retryable() == false，xinvoke 与 xretry 遇到它会立即停止重试，
// 避免在下游不可用时继续退避等待。
//
// 默认连续失败 5 次后熔断，30 秒后进入半开状态试探。
package xbreaker

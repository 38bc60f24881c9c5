// Package xbackend 是教务后端 REST API 的客户端，提供 xinvoke 与 xfanout
// 直接可用的操作。
//
// 资源固定为 students、coaches、branches、courses、payments，
// 对应 GET /{resource} 与 GET /{resource}/{id}。
//
// 错误分类：
//   - 传输错误与 5xx、429 视为临时错误，可重试
//   - 其余 4xx 返回 [*APIError]，Retryable() 为 false，执行器不会重试
//   - 熔断器打开时返回包装了 [ErrCircuitOpen] 的错误，同样不可重试
//
// 所有请求经过 xbreaker 熔断器。客户端错误不计入熔断统计，
// 调用方取消的请求也不计入。
package xbackend

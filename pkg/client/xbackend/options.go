package xbackend

import (
	"net/http"
	"time"

	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
	"github.com/omeyang/xinvoke/pkg/resilience/xbreaker"
)

const (
	// DefaultTimeout 单次请求超时
	DefaultTimeout = 10 * time.Second
	// DefaultBreakerThreshold 连续失败多少次后熔断
	DefaultBreakerThreshold uint32 = 5
	// DefaultBreakerTimeout 熔断后多久进入半开
	DefaultBreakerTimeout = 30 * time.Second
)

type options struct {
	httpClient       *http.Client
	timeout          time.Duration
	headers          map[string]string
	breaker          *xbreaker.Breaker
	breakerThreshold uint32
	breakerTimeout   time.Duration
	logger           xlog.Logger
	observer         xmetrics.Observer
}

// Option 客户端配置选项
type Option func(*options)

// WithHTTPClient 使用自定义 http.Client，nil 忽略
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout 单次请求超时，非正数忽略
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHeader 为所有请求附加请求头
func WithHeader(key, value string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithBreaker 使用外部熔断器，多个客户端可共享
func WithBreaker(b *xbreaker.Breaker) Option {
	return func(o *options) {
		if b != nil {
			o.breaker = b
		}
	}
}

// WithBreakerThreshold 内置熔断器的连续失败阈值，使用 WithBreaker 时无效
func WithBreakerThreshold(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.breakerThreshold = n
		}
	}
}

// WithBreakerTimeout 内置熔断器的打开时长，使用 WithBreaker 时无效
func WithBreakerTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.breakerTimeout = d
		}
	}
}

// WithLogger 设置日志记录器，nil 忽略
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置观测器，每个请求产生一个客户端跨度
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

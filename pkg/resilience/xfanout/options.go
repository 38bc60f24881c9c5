package xfanout

import (
	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
)

type options struct {
	concurrency int
	logger      xlog.Logger
	observer    xmetrics.Observer
	name        string
}

// Option 编排器配置选项
type Option func(*options)

// WithConcurrency 限制同时进行的调用数，n <= 0 表示不限制
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = max(n, 0) }
}

// WithLogger 设置日志记录器，nil 忽略
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置观测器，每个调用产生一个跨度
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithName 设置编排器名称，用于日志和观测属性
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

package xinvoke

import (
	"context"
	"time"

	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

type options struct {
	cfg      Config
	backoff  xretry.BackoffPolicy
	notifier Notifier
	logger   xlog.Logger
	observer xmetrics.Observer
	name     string
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option 执行器配置选项
type Option func(*options)

// WithConfig 整体替换配置，非法字段在 New 中被截断为 0
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithMaxRetries 设置最大重试次数，负数忽略
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.cfg.MaxRetries = n
		}
	}
}

// WithRetryDelay 设置初始重试延迟，负数忽略
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.cfg.RetryDelay = d
		}
	}
}

// WithErrorToast 是否在终态失败时发送错误通知
func WithErrorToast(show bool) Option {
	return func(o *options) { o.cfg.ShowErrorToast = show }
}

// WithSuccessToast 成功时发送 msg 作为通知，msg 为空等同关闭
func WithSuccessToast(msg string) Option {
	return func(o *options) {
		o.cfg.ShowSuccessToast = msg != ""
		o.cfg.SuccessMessage = msg
	}
}

// WithErrorMessage 自定义终态失败通知内容
func WithErrorMessage(msg string) Option {
	return func(o *options) { o.cfg.ErrorMessage = msg }
}

// WithBackoff 替换默认的翻倍退避，nil 忽略。
// 设置后 RetryDelay 不再参与延迟计算。
func WithBackoff(b xretry.BackoffPolicy) Option {
	return func(o *options) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithNotifier 设置通知接收方，nil 忽略
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
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

// WithObserver 设置观测器，每次尝试产生一个跨度
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithName 设置执行器名称，用于日志和观测属性
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// withSleep 替换退避等待实现，仅测试使用
func withSleep(f func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = f }
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

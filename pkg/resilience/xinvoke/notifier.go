package xinvoke

//go:generate mockgen -source=notifier.go -destination=notifier_mock_test.go -package=xinvoke

import (
	"context"

	"github.com/omeyang/xinvoke/pkg/observability/xlog"
)

// Notifier 接收面向用户的提示，例如界面上的 toast。
// 实现必须并发安全且不应阻塞。
type Notifier interface {
	Info(ctx context.Context, msg string)
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// NopNotifier 丢弃所有通知
type NopNotifier struct{}

func (NopNotifier) Info(context.Context, string)    {}
func (NopNotifier) Success(context.Context, string) {}
func (NopNotifier) Error(context.Context, string)   {}

// LogNotifier 把通知写入日志：Info/Success 记为 Info 级别，Error 记为 Warn 级别
type LogNotifier struct {
	Logger xlog.Logger
}

func (n LogNotifier) Info(ctx context.Context, msg string) {
	n.logger().Info(ctx, msg, xlog.Component("notifier"))
}

func (n LogNotifier) Success(ctx context.Context, msg string) {
	n.logger().Info(ctx, msg, xlog.Component("notifier"))
}

func (n LogNotifier) Error(ctx context.Context, msg string) {
	n.logger().Warn(ctx, msg, xlog.Component("notifier"))
}

func (n LogNotifier) logger() xlog.Logger {
	if n.Logger == nil {
		return xlog.Default()
	}
	return n.Logger
}

// NotifierFuncs 用函数实现 Notifier，未设置的函数忽略对应通知
type NotifierFuncs struct {
	OnInfo    func(ctx context.Context, msg string)
	OnSuccess func(ctx context.Context, msg string)
	OnError   func(ctx context.Context, msg string)
}

func (f NotifierFuncs) Info(ctx context.Context, msg string) {
	if f.OnInfo != nil {
		f.OnInfo(ctx, msg)
	}
}

func (f NotifierFuncs) Success(ctx context.Context, msg string) {
	if f.OnSuccess != nil {
		f.OnSuccess(ctx, msg)
	}
}

func (f NotifierFuncs) Error(ctx context.Context, msg string) {
	if f.OnError != nil {
		f.OnError(ctx, msg)
	}
}

var (
	_ Notifier = NopNotifier{}
	_ Notifier = LogNotifier{}
	_ Notifier = NotifierFuncs{}
)

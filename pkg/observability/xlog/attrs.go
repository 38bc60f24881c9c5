package xlog

import (
	"log/slog"
	"time"

	"github.com/omeyang/xinvoke/pkg/context/xctx"
)

// 常用属性 Key 常量
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyDelay     = "delay"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"

	// KeyAttempt 与 xctx 保持一致，避免同一条日志出现两种写法
	KeyAttempt = xctx.KeyAttempt
	KeyCallID  = xctx.KeyCallID
)

// Err 创建错误属性，err 为 nil 时返回空属性（会被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性（人类可读格式，如 "1.5s"）
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Delay 创建退避延迟属性
func Delay(d time.Duration) slog.Attr {
	return slog.String(KeyDelay, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Attempt 创建尝试序号属性（从 1 开始）
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// CallID 创建批次内调用 ID 属性
func CallID(id string) slog.Attr {
	return slog.String(KeyCallID, id)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

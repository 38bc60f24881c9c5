package xfanout

import (
	"context"

	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

// Call 批次中的一个调用
type Call[T any] struct {
	// ID 调用标识，出现在错误列表和日志中。批次内应唯一
	ID string

	Operation func(ctx context.Context) (T, error)

	// OnSuccess 成功时调用，可为 nil
	OnSuccess func(data T)

	// OnError 失败时调用，可为 nil
	OnError func(err error)

	// Retryer 非 nil 时通过 retry-go 自动重试该调用
	Retryer *xretry.Retryer
}

// Record 单个调用的结果，Err 为 nil 时 Data 有效
type Record[T any] struct {
	ID   string
	Data T
	Err  error
}

// OK 报告调用是否成功
func (r Record[T]) OK() bool { return r.Err == nil }

// Failed 返回 records 中失败的记录，保持原有顺序
func Failed[T any](records []Record[T]) []Record[T] {
	var out []Record[T]
	for _, r := range records {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

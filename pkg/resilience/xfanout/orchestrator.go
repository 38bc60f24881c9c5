package xfanout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xinvoke/pkg/context/xctx"
	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

const componentName = "xfanout"

// Orchestrator 并发执行调用批次。
// 编排器级别的 Loading/Errors/Active 反映最近一次开始的批次。
type Orchestrator[T any] struct {
	concurrency int
	logger      xlog.Logger
	observer    xmetrics.Observer
	name        string

	mu      sync.Mutex
	gen     uint64
	loading bool
	errs    []string
	active  map[string]int
}

// New 创建编排器
func New[T any](opts ...Option) *Orchestrator[T] {
	o := options{
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
		name:     componentName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Orchestrator[T]{
		concurrency: o.concurrency,
		logger:      o.logger.With(xlog.Component(o.name)),
		observer:    o.observer,
		name:        o.name,
		active:      make(map[string]int),
	}
}

// ExecuteMultiple 并发执行 calls，等待全部结束后按输入顺序返回记录。
// 单个调用失败或 panic 只影响它自己的记录，不会中断其他调用。
func (o *Orchestrator[T]) ExecuteMultiple(ctx context.Context, calls []Call[T]) []Record[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	bctx, batchID, err := xctx.NewBatch(ctx)
	if err == nil {
		ctx = bctx
	}

	gen := o.begin(calls)
	o.warnDuplicates(ctx, calls)
	o.logger.Debug(ctx, "batch started", xlog.Count(int64(len(calls))), slog.String(xctx.KeyBatchID, batchID))

	start := time.Now()
	records := make([]Record[T], len(calls))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, call := range calls {
		g.Go(func() error {
			records[i] = o.run(ctx, gen, call)
			return nil
		})
	}
	_ = g.Wait()

	o.mu.Lock()
	if o.gen == gen {
		o.loading = false
	}
	o.mu.Unlock()

	failed := len(Failed(records))
	o.logger.Info(ctx, "batch settled",
		xlog.Count(int64(len(records))),
		slog.Int("failed", failed),
		xlog.Duration(time.Since(start)))
	return records
}

// CancelAll 清空活跃调用并结束 Loading，不中断进行中的调用
func (o *Orchestrator[T]) CancelAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	clear(o.active)
	o.loading = false
}

// Loading 报告最近的批次是否仍在进行
func (o *Orchestrator[T]) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// Errors 返回最近批次的错误列表，每项格式为 "{id}: {message}"
func (o *Orchestrator[T]) Errors() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.errs)
}

// Active 返回最近批次中尚未结束的调用 ID，按字典序排列
func (o *Orchestrator[T]) Active() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	ids := make([]string, 0, len(o.active))
	for id := range o.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (o *Orchestrator[T]) begin(calls []Call[T]) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.gen++
	o.loading = true
	o.errs = nil
	clear(o.active)
	for _, c := range calls {
		o.active[c.ID]++
	}
	return o.gen
}

func (o *Orchestrator[T]) warnDuplicates(ctx context.Context, calls []Call[T]) {
	seen := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		if _, dup := seen[c.ID]; dup {
			o.logger.Warn(ctx, "duplicate call id in batch", xlog.CallID(c.ID))
			continue
		}
		seen[c.ID] = struct{}{}
	}
}

// settle 更新簿记，批次已被取代时不做任何修改
func (o *Orchestrator[T]) settle(gen uint64, id string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.gen != gen {
		return
	}
	if n, ok := o.active[id]; ok {
		if n <= 1 {
			delete(o.active, id)
		} else {
			o.active[id] = n - 1
		}
	}
	if err != nil {
		o.errs = append(o.errs, fmt.Sprintf("%s: %s", id, err.Error()))
	}
}

func (o *Orchestrator[T]) run(ctx context.Context, gen uint64, call Call[T]) (rec Record[T]) {
	rec.ID = call.ID
	if cctx, err := xctx.WithCallID(ctx, call.ID); err == nil {
		ctx = cctx
	}
	ctx, span := xmetrics.Start(ctx, o.observer, xmetrics.SpanOptions{
		Component: o.name,
		Operation: "xfanout.call",
		Kind:      xmetrics.KindClient,
		Attrs:     []xmetrics.Attr{xmetrics.String(xmetrics.AttrCallID, call.ID)},
	})
	defer func() {
		o.settle(gen, call.ID, rec.Err)
		span.End(xmetrics.Result{Err: rec.Err})
	}()

	var data T
	var err error
	if r := catch(func() { data, err = o.invoke(ctx, call) }); r != nil {
		err = fmt.Errorf("%w: %v", ErrCallPanic, r)
		o.logger.Stack(ctx, "call panicked", xlog.Err(err))
	}
	if err != nil {
		o.logger.Warn(ctx, "call failed", xlog.Err(err))
		rec.Err = o.fireError(ctx, call, err)
		return rec
	}

	if call.OnSuccess != nil {
		if r := catch(func() { call.OnSuccess(data) }); r != nil {
			err = fmt.Errorf("%w: OnSuccess: %v", ErrCallPanic, r)
			o.logger.Stack(ctx, "success callback panicked", xlog.Err(err))
			rec.Err = o.fireError(ctx, call, err)
			return rec
		}
	}
	rec.Data = data
	return rec
}

// fireError 调用 OnError 并返回记录应保存的错误。
// 回调 panic 时保留原错误，与 panic 信息一起包装。
func (o *Orchestrator[T]) fireError(ctx context.Context, call Call[T], err error) error {
	if call.OnError == nil {
		return err
	}
	if r := catch(func() { call.OnError(err) }); r != nil {
		werr := fmt.Errorf("%w: OnError: %v: %w", ErrCallPanic, r, err)
		o.logger.Stack(ctx, "error callback panicked", xlog.Err(werr))
		return werr
	}
	return err
}

// catch 执行 fn 并返回其 panic 值，未 panic 时为 nil
func catch(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func (o *Orchestrator[T]) invoke(ctx context.Context, call Call[T]) (T, error) {
	if call.Operation == nil {
		var zero T
		return zero, ErrNilOperation
	}
	if call.Retryer != nil {
		return xretry.DoWithResult(ctx, call.Retryer, call.Operation)
	}
	return call.Operation(ctx)
}

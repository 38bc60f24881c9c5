package xinvoke

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xinvoke/pkg/context/xctx"
	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

const componentName = "xinvoke"

// Operation 被执行器包装的操作。ctx 在调用链被取消或取代时结束。
type Operation[A, T any] func(ctx context.Context, args A) (T, error)

// Executor 驱动单个操作完成有界重试，并对外暴露可观测状态。
// 所有方法并发安全。
type Executor[A, T any] struct {
	op       Operation[A, T]
	cfg      Config
	backoff  xretry.BackoffPolicy
	notifier Notifier
	logger   xlog.Logger
	observer xmetrics.Observer
	name     string
	sleep    func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	state   State[T]
	current *token
	args    A
	hasArgs bool
	subs    map[uint64]chan State[T]
	nextSub uint64
}

// New 创建执行器。op 为 nil 时每次 Execute 都以 [ErrNilOperation] 终态失败。
func New[A, T any](op Operation[A, T], opts ...Option) *Executor[A, T] {
	o := options{
		cfg:      DefaultConfig(),
		notifier: NopNotifier{},
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
		name:     componentName,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.cfg.MaxRetries = max(o.cfg.MaxRetries, 0)
	o.cfg.RetryDelay = max(o.cfg.RetryDelay, 0)
	if o.backoff == nil {
		o.backoff = xretry.NewDoublingBackoff(o.cfg.RetryDelay)
	}
	if o.sleep == nil {
		o.sleep = sleepContext
	}

	return &Executor[A, T]{
		op:       op,
		cfg:      o.cfg,
		backoff:  o.backoff,
		notifier: o.notifier,
		logger:   o.logger.With(xlog.Component(o.name)),
		observer: o.observer,
		name:     o.name,
		sleep:    o.sleep,
		state:    initialState[T](),
	}
}

// Config 返回生效的配置
func (e *Executor[A, T]) Config() Config { return e.cfg }

// Execute 以 args 开启新的调用链并等待其结束。
//
// 成功返回 (data, true)。终态失败、被取消或被新调用取代时返回 (零值, false)，
// 此时通过 [Executor.State] 区分：终态失败设置 Err，取消不设置。
func (e *Executor[A, T]) Execute(ctx context.Context, args A) (T, bool) {
	e.mu.Lock()
	e.args, e.hasArgs = args, true
	e.mu.Unlock()

	data, ok, _ := e.run(ctx, args)
	return data, ok
}

// Retry 用最近一次 Execute 的参数重新开启调用链，RetryCount 从 0 开始。
// 从未 Execute 过时直接返回 (零值, false)，不修改状态。
func (e *Executor[A, T]) Retry(ctx context.Context) (T, bool) {
	args, ok := e.lastArgs()
	if !ok {
		var zero T
		return zero, false
	}
	data, ok, _ := e.run(ctx, args)
	return data, ok
}

// Operation 返回以 args 调用 Execute 的函数，用于 xfanout 批次。
// 终态失败返回 *TerminalError，取消返回 [ErrCancelled]。
func (e *Executor[A, T]) Operation(args A) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		e.mu.Lock()
		e.args, e.hasArgs = args, true
		e.mu.Unlock()

		data, ok, err := e.run(ctx, args)
		if ok {
			return data, nil
		}
		if err == nil {
			err = ErrCancelled
		}
		return data, err
	}
}

// Cancel 使当前调用链失效，不修改 Data 和 Err。
// 正在等待退避的调用链不会再调用操作。
func (e *Executor[A, T]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Cancel()
	if e.state.Loading {
		e.state.Loading = false
		e.state.IsRetrying = false
		e.state.Phase = PhaseCancelled
		e.broadcast()
	}
}

// Reset 取消进行中的调用链并恢复初始状态，保留最近一次的参数。
func (e *Executor[A, T]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Cancel()
	e.state = initialState[T]()
	e.broadcast()
}

// State 返回当前状态快照
func (e *Executor[A, T]) State() State[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe 订阅状态变化。通道只保留最新一次状态，消费慢时中间状态会被覆盖。
// 调用返回的函数取消订阅并关闭通道。
func (e *Executor[A, T]) Subscribe() (<-chan State[T], func()) {
	ch := make(chan State[T], 1)

	e.mu.Lock()
	if e.subs == nil {
		e.subs = make(map[uint64]chan State[T])
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	ch <- e.state
	e.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			close(ch)
			e.mu.Unlock()
		})
	}
}

// broadcast 调用方必须持有 e.mu
func (e *Executor[A, T]) broadcast() {
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- e.state:
		default:
		}
	}
}

func (e *Executor[A, T]) lastArgs() (A, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.args, e.hasArgs
}

// begin 签发新令牌并取代旧调用链
func (e *Executor[A, T]) begin(ctx context.Context) *token {
	tok := newToken(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Cancel()
	e.current = tok
	e.state.Phase = PhaseRunning
	e.state.Loading = true
	e.state.Err = nil
	e.state.RetryCount = 0
	e.state.IsRetrying = false
	e.broadcast()
	return tok
}

// commit 仅在 tok 仍是当前有效令牌时应用 mutate，返回是否已应用
func (e *Executor[A, T]) commit(tok *token, mutate func(s *State[T])) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != tok || !tok.Valid() {
		return false
	}
	mutate(&e.state)
	e.broadcast()
	return true
}

// abandon 调用方 context 结束导致的取消：令牌仍是当前令牌时标记为已取消
func (e *Executor[A, T]) abandon(tok *token) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != tok || !e.state.Loading {
		return
	}
	e.state.Loading = false
	e.state.IsRetrying = false
	e.state.Phase = PhaseCancelled
	e.broadcast()
}

// run 执行一条调用链。error 仅在终态失败时非 nil。
func (e *Executor[A, T]) run(ctx context.Context, args A) (T, bool, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, err := xctx.WithChainID(ctx, uuid.NewString())
	if err != nil {
		return zero, false, nil
	}

	tok := e.begin(ctx)
	defer tok.Cancel()

	for attempt := 1; ; attempt++ {
		if !tok.Valid() {
			e.abandon(tok)
			return zero, false, nil
		}

		data, opErr := e.invoke(tok.ctx, args, attempt)
		if !tok.Valid() {
			e.abandon(tok)
			e.logger.Debug(tok.ctx, "invocation chain cancelled", xlog.Attempt(attempt))
			return zero, false, nil
		}

		if opErr == nil {
			if !e.commit(tok, func(s *State[T]) {
				s.Phase = PhaseSucceeded
				s.Data, s.HasData = data, true
				s.Loading = false
				s.IsRetrying = false
				s.Err = nil
			}) {
				return zero, false, nil
			}
			if e.cfg.ShowSuccessToast && e.cfg.SuccessMessage != "" {
				e.notifier.Success(tok.ctx, e.cfg.SuccessMessage)
			}
			return data, true, nil
		}

		retries := attempt - 1
		if retries >= e.cfg.MaxRetries || !xretry.ShouldRetry(opErr) {
			return zero, false, e.fail(tok, attempt, opErr)
		}

		retry := retries + 1
		delay := e.backoff.NextDelay(retry)
		if !e.commit(tok, func(s *State[T]) {
			s.Phase = PhaseRetrying
			s.IsRetrying = true
			s.RetryCount = retry
		}) {
			return zero, false, nil
		}
		e.logger.Warn(tok.ctx, "operation failed, retrying",
			xlog.Err(opErr), xlog.Attempt(attempt), xlog.Delay(delay),
			slog.Int("max_retries", e.cfg.MaxRetries))
		e.notifier.Info(tok.ctx, fmt.Sprintf("Retrying in %s (%d/%d)...", delay, retry, e.cfg.MaxRetries))

		if err := e.sleep(tok.ctx, delay); err != nil || !tok.Valid() {
			e.abandon(tok)
			return zero, false, nil
		}
	}
}

// fail 记录终态失败并清除旧数据，令牌失效时返回 nil
func (e *Executor[A, T]) fail(tok *token, attempts int, cause error) error {
	terr := &TerminalError{Attempts: attempts, Err: cause}
	if !e.commit(tok, func(s *State[T]) {
		var zero T
		s.Phase = PhaseFailed
		s.Err = terr
		s.Data, s.HasData = zero, false
		s.Loading = false
		s.IsRetrying = false
	}) {
		return nil
	}
	e.logger.Error(tok.ctx, "operation failed", xlog.Err(cause), xlog.Count(int64(attempts)))
	if e.cfg.ShowErrorToast {
		e.notifier.Error(tok.ctx, e.cfg.errorSummary(attempts, cause))
	}
	return terr
}

// invoke 执行一次尝试，panic 转为错误
func (e *Executor[A, T]) invoke(ctx context.Context, args A, attempt int) (data T, err error) {
	if actx, aerr := xctx.WithAttempt(ctx, attempt); aerr == nil {
		ctx = actx
	}
	ctx, span := xmetrics.Start(ctx, e.observer, xmetrics.SpanOptions{
		Component: e.name,
		Operation: "xinvoke.attempt",
		Attrs: []xmetrics.Attr{
			xmetrics.Int(xmetrics.AttrAttempt, attempt),
			xmetrics.Int(xmetrics.AttrMaxRetries, e.cfg.MaxRetries),
		},
	})
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrOperationPanic, r)
			e.logger.Stack(ctx, "operation panicked", xlog.Err(err))
		}
		result := xmetrics.Result{Err: err}
		if ctx.Err() != nil {
			result.Status = xmetrics.StatusCancelled
		}
		span.End(result)
	}()

	if e.op == nil {
		return data, xretry.NewPermanentError(ErrNilOperation)
	}
	e.logger.Debug(ctx, "invoking operation", xlog.Attempt(attempt))
	return e.op(ctx, args)
}

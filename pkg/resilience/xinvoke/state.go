package xinvoke

// Phase 调用链所处阶段
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseRetrying  Phase = "retrying"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
	PhaseCancelled Phase = "cancelled"
)

// State 执行器可观测状态的快照。
//
// 不变式：
//   - Loading 与 Err != nil 互斥
//   - IsRetrying 时 RetryCount > 0
//   - RetryCount 只在新的 Execute/Retry 或 Reset 时归零
type State[T any] struct {
	Phase Phase

	// Data 成功结果，仅 HasData 为 true 时有意义；终态失败时清空，取消时保留
	Data    T
	HasData bool

	Loading bool

	// Err 终态失败，类型为 *TerminalError；取消不会设置 Err
	Err error

	RetryCount int
	IsRetrying bool
}

// Message 返回错误消息，无错误时为空字符串
func (s State[T]) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Settled 报告调用链是否已结束（成功、失败或取消）
func (s State[T]) Settled() bool {
	switch s.Phase {
	case PhaseSucceeded, PhaseFailed, PhaseCancelled:
		return true
	default:
		return false
	}
}

func initialState[T any]() State[T] {
	return State[T]{Phase: PhaseIdle}
}

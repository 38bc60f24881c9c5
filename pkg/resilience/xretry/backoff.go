package xretry

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// BackoffPolicy 计算重试前的等待时间。
type BackoffPolicy interface {
	// NextDelay 返回第 attempt 次重试前的延迟，attempt 从 1 开始
	NextDelay(attempt int) time.Duration
}

// maxShift 超过该位移量时 base<<shift 必然溢出 int64
const maxShift = 62

// Delay 返回 base * 2^attemptIndex。
// attemptIndex 为负时按 0 处理，base 非正时返回 0，结果溢出时饱和到 math.MaxInt64。
func Delay(attemptIndex int, base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if attemptIndex < 0 {
		attemptIndex = 0
	}
	if attemptIndex > maxShift || base > time.Duration(math.MaxInt64>>attemptIndex) {
		return time.Duration(math.MaxInt64)
	}
	return base << attemptIndex
}

// DoublingBackoff 每次重试延迟翻倍：base, 2*base, 4*base, ...
type DoublingBackoff struct {
	base time.Duration
}

// NewDoublingBackoff 创建翻倍退避，负数 base 视为 0
func NewDoublingBackoff(base time.Duration) *DoublingBackoff {
	if base < 0 {
		base = 0
	}
	return &DoublingBackoff{base: base}
}

func (b *DoublingBackoff) NextDelay(attempt int) time.Duration {
	return Delay(attempt-1, b.base)
}

// Base 返回初始延迟
func (b *DoublingBackoff) Base() time.Duration { return b.base }

// FixedBackoff 固定延迟
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff 创建固定延迟退避，负数视为 0
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	if delay < 0 {
		delay = 0
	}
	return &FixedBackoff{delay: delay}
}

func (b *FixedBackoff) NextDelay(int) time.Duration { return b.delay }

// NoBackoff 立即重试
type NoBackoff struct{}

func (NoBackoff) NextDelay(int) time.Duration { return 0 }

// ExponentialBackoff 带上限和抖动的指数退避：
// delay = min(initial * multiplier^(attempt-1) * (1 ± jitter), max)
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	jitter       float64
}

// ExponentialOption 指数退避配置选项
type ExponentialOption func(*ExponentialBackoff)

// WithInitialDelay 设置初始延迟，非正数忽略
func WithInitialDelay(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.initialDelay = d
		}
	}
}

// WithMaxDelay 设置延迟上限，非正数忽略
func WithMaxDelay(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// WithMultiplier 设置乘数，小于 1 忽略
func WithMultiplier(m float64) ExponentialOption {
	return func(b *ExponentialBackoff) {
		if m >= 1 {
			b.multiplier = m
		}
	}
}

// WithJitter 设置抖动比例，截断到 [0, 1]
func WithJitter(j float64) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.jitter = min(max(j, 0), 1)
	}
}

// NewExponentialBackoff 创建指数退避。
// 默认 initial=1s、max=30s、multiplier=2、jitter=0.1。
func NewExponentialBackoff(opts ...ExponentialOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2,
		jitter:       0.1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.maxDelay = max(b.maxDelay, b.initialDelay)
	return b
}

func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	attempt = max(attempt, 1)

	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt-1))
	if b.jitter > 0 {
		delay *= 1 + (randomFloat64()*2-1)*b.jitter
	}
	// Pow 溢出为 +Inf 后与 0 相乘得到 NaN，NaN 的比较恒为 false
	if math.IsNaN(delay) || delay < 0 || delay >= float64(b.maxDelay) {
		return b.maxDelay
	}
	return time.Duration(delay)
}

var (
	_ BackoffPolicy = (*DoublingBackoff)(nil)
	_ BackoffPolicy = (*FixedBackoff)(nil)
	_ BackoffPolicy = NoBackoff{}
	_ BackoffPolicy = (*ExponentialBackoff)(nil)
)

func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) / (1 << 53)
}

package xbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	var transitions []State
	b := NewBreaker("backend",
		WithThreshold(2),
		WithTimeout(time.Hour),
		WithOnStateChange(func(_ string, _, to State) { transitions = append(transitions, to) }),
	)
	ctx := context.Background()
	boom := errors.New("500")

	for range 2 {
		_, err := Execute(ctx, b, func() (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, []State{StateOpen}, transitions)

	called := false
	_, err := Execute(ctx, b, func() (int, error) {
		called = true
		return 1, nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, IsOpen(err))
	assert.True(t, IsBreakerError(err))
	assert.False(t, xretry.IsRetryable(err))

	var be *BreakerError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "backend", be.Name)
	assert.Contains(t, be.Error(), "breaker backend")
}

func TestBreaker_SuccessPolicy(t *testing.T) {
	b := NewBreaker("backend",
		WithThreshold(1),
		WithSuccessPolicy(func(err error) bool { return err == nil || xretry.IsPermanent(err) }),
	)
	_, err := Execute(context.Background(), b, func() (string, error) {
		return "", xretry.NewPermanentError(errors.New("404"))
	})
	require.Error(t, err)
	assert.False(t, IsBreakerError(err))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_Execute(t *testing.T) {
	b := NewBreaker("backend", WithMaxRequests(0), WithTimeout(-1), WithInterval(-1), WithThreshold(0), nil)
	got, err := Execute(context.Background(), b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, uint32(1), b.Counts().TotalSuccesses)
	assert.Equal(t, "backend", b.Name())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Execute(ctx, b, func() (string, error) { return "", nil })
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Execute[int](context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilBreaker)
}

func TestWrapBreakerError(t *testing.T) {
	assert.NoError(t, wrapBreakerError(nil, "x"))
	plain := errors.New("plain")
	assert.Same(t, plain, wrapBreakerError(plain, "x"))

	be := &BreakerError{Err: errors.New("inner")}
	assert.Equal(t, "inner", be.Error())
}

package xretry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name      string
		err       error
		retryable bool
		should    bool
	}{
		{"nil", nil, false, false},
		{"plain", base, true, true},
		{"permanent", NewPermanentError(base), false, false},
		{"wrapped permanent", fmt.Errorf("get: %w", NewPermanentError(base)), false, false},
		{"temporary", NewTemporaryError(base), true, true},
		{"unrecoverable", Unrecoverable(base), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
			assert.Equal(t, tt.should, ShouldRetry(tt.err))
		})
	}
}

func TestPermanentError(t *testing.T) {
	base := errors.New("bad request")
	err := NewPermanentError(base)
	assert.Equal(t, "bad request", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, IsPermanent(err))
	assert.False(t, IsPermanent(nil))
	assert.Equal(t, "permanent error", NewPermanentError(nil).Error())
	assert.Equal(t, "temporary error", NewTemporaryError(nil).Error())
}

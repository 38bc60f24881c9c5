package xctx_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/omeyang/xinvoke/pkg/context/xctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainID(t *testing.T) {
	assert.Empty(t, xctx.ChainID(context.Background()))

	ctx, err := xctx.WithChainID(context.Background(), "chain-1")
	require.NoError(t, err)
	assert.Equal(t, "chain-1", xctx.ChainID(ctx))

	id, err := xctx.RequireChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chain-1", id)

	_, err = xctx.RequireChainID(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingChainID)

	var nilCtx context.Context
	assert.Empty(t, xctx.ChainID(nilCtx))
	_, err = xctx.WithChainID(nilCtx, "x")
	assert.True(t, errors.Is(err, xctx.ErrNilContext))
}

func TestEnsureChainID(t *testing.T) {
	t.Run("Generate", func(t *testing.T) {
		ctx, id, err := xctx.EnsureChainID(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, xctx.ChainID(ctx))
	})

	t.Run("KeepExisting", func(t *testing.T) {
		base, err := xctx.WithChainID(context.Background(), "existing")
		require.NoError(t, err)
		ctx, id, err := xctx.EnsureChainID(base)
		require.NoError(t, err)
		assert.Equal(t, "existing", id)
		assert.Equal(t, base, ctx)
	})

	t.Run("NilContext", func(t *testing.T) {
		var nilCtx context.Context
		_, _, err := xctx.EnsureChainID(nilCtx)
		assert.ErrorIs(t, err, xctx.ErrNilContext)
	})
}

func TestNewBatch(t *testing.T) {
	ctx1, id1, err := xctx.NewBatch(context.Background())
	require.NoError(t, err)
	ctx2, id2, err := xctx.NewBatch(ctx1)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, id1, xctx.BatchID(ctx1))
	assert.Equal(t, id2, xctx.BatchID(ctx2))
}

func TestCallIDAndAttempt(t *testing.T) {
	ctx, err := xctx.WithCallID(context.Background(), "students")
	require.NoError(t, err)
	ctx, err = xctx.WithAttempt(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, "students", xctx.CallID(ctx))
	assert.Equal(t, 2, xctx.Attempt(ctx))
	assert.Zero(t, xctx.Attempt(context.Background()))
}

func TestInvokeAttrs(t *testing.T) {
	assert.Nil(t, xctx.InvokeAttrs(context.Background()))

	ctx, _ := xctx.WithChainID(context.Background(), "c")
	ctx, _ = xctx.WithBatchID(ctx, "b")
	ctx, _ = xctx.WithCallID(ctx, "id")
	ctx, _ = xctx.WithAttempt(ctx, 3)

	attrs := xctx.InvokeAttrs(ctx)
	require.Len(t, attrs, 4)
	want := []slog.Attr{
		slog.String(xctx.KeyChainID, "c"),
		slog.String(xctx.KeyBatchID, "b"),
		slog.String(xctx.KeyCallID, "id"),
		slog.Int(xctx.KeyAttempt, 3),
	}
	for i, w := range want {
		assert.True(t, w.Equal(attrs[i]), "attr %d: got %v, want %v", i, attrs[i], w)
	}
}

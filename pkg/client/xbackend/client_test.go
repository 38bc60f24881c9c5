package xbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xinvoke/pkg/context/xctx"
	"github.com/omeyang/xinvoke/pkg/resilience/xbreaker"
	"github.com/omeyang/xinvoke/pkg/resilience/xinvoke"
	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // 测试服务器
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	_, err := New("  ")
	assert.ErrorIs(t, err, ErrEmptyBaseURL)

	c, err := New("http://example.com/api/", WithTimeout(time.Second), WithHTTPClient(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", c.BaseURL())
	assert.NotNil(t, c.Breaker())
}

func TestClient_List(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Ada"}, {"id": "s-2", "name": "Lin"}})
	})

	c, err := New(srv.URL+"/api", WithHeader("X-Token", "secret"))
	require.NoError(t, err)

	items, err := c.List(context.Background(), Students)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID())
	assert.Equal(t, "s-2", items[1].ID())
	assert.Equal(t, "Ada", items[0]["name"])
}

func TestClient_Get(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/c%2F1", "/courses/c/1":
			writeJSON(w, http.StatusOK, map[string]any{"id": "c/1", "title": "Go"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "course not found"})
		}
	})
	c, err := New(srv.URL)
	require.NoError(t, err)

	item, err := c.Get(context.Background(), Courses, "c/1")
	require.NoError(t, err)
	assert.Equal(t, "Go", item["title"])

	_, err = c.Get(context.Background(), Courses, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, xretry.IsRetryable(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "course not found", apiErr.Message)

	_, err = c.Get(context.Background(), Courses, " ")
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.True(t, xretry.IsPermanent(err))
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
		target    error
	}{
		{"server error", http.StatusServiceUnavailable, `{"error":"down"}`, true, ErrServerError},
		{"too many requests", http.StatusTooManyRequests, "slow down", true, nil},
		{"bad request", http.StatusBadRequest, `{"message":"bad"}`, false, nil},
		{"not found", http.StatusNotFound, "", false, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body)) //nolint:errcheck // 测试服务器
			})
			c, err := New(srv.URL)
			require.NoError(t, err)

			_, err = c.List(context.Background(), Payments)
			require.Error(t, err)
			assert.Equal(t, tt.retryable, xretry.IsRetryable(err))
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestClient_UnknownResource(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = c.List(context.Background(), Resource("instructors"))
	assert.ErrorIs(t, err, ErrUnknownResource)
	assert.True(t, xretry.IsPermanent(err))

	_, err = c.Get(context.Background(), Resource(""), "1")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestClient_TransportErrorIsTemporary(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.List(context.Background(), Branches)
	require.Error(t, err)
	assert.True(t, xretry.IsRetryable(err))
}

func TestClient_DecodeError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json")) //nolint:errcheck // 测试服务器
	})
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.List(context.Background(), Coaches)
	assert.ErrorIs(t, err, ErrDecodeResponse)
	assert.True(t, xretry.IsPermanent(err))
}

func TestClient_CircuitOpens(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, err := New(srv.URL, WithBreakerThreshold(2), WithBreakerTimeout(time.Hour))
	require.NoError(t, err)

	ctx := context.Background()
	for range 2 {
		_, err = c.List(ctx, Students)
		assert.ErrorIs(t, err, ErrServerError)
	}
	_, err = c.List(ctx, Students)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, xbreaker.IsOpen(err))
	assert.False(t, xretry.IsRetryable(err))
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, xbreaker.StateOpen, c.Breaker().State())
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	shared := xbreaker.NewBreaker("shared", xbreaker.WithThreshold(1), xbreaker.WithSuccessPolicy(countsAsSuccess))
	c, err := New(srv.URL, WithBreaker(shared))
	require.NoError(t, err)

	for range 3 {
		_, err = c.Get(context.Background(), Students, "1")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, xbreaker.StateClosed, shared.State())
}

func TestClient_WithExecutor(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 7}})
	})
	c, err := New(srv.URL)
	require.NoError(t, err)

	exec := xinvoke.New(func(ctx context.Context, r Resource) ([]Item, error) {
		return c.List(ctx, r)
	}, xinvoke.WithMaxRetries(3), xinvoke.WithBackoff(xretry.NoBackoff{}))

	items, ok := exec.Execute(context.Background(), Branches)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ID())
	assert.Equal(t, 2, exec.State().RetryCount)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_ExecutorStopsOnClientError(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, err := New(srv.URL)
	require.NoError(t, err)

	exec := xinvoke.New(func(ctx context.Context, id string) (Item, error) {
		return c.Get(ctx, Students, id)
	}, xinvoke.WithMaxRetries(3), xinvoke.WithBackoff(xretry.NoBackoff{}))

	_, ok := exec.Execute(context.Background(), "1")
	assert.False(t, ok)
	assert.Equal(t, int32(1), hits.Load())
	var apiErr *APIError
	require.True(t, errors.As(exec.State().Err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_CancelledContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	c, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.List(ctx, Students)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), c.Breaker().Counts().TotalFailures)
}

func slowServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeJSON(w, http.StatusOK, []any{})
	})
}

func TestClient_CallerDeadlineDoesNotTrip(t *testing.T) {
	srv := slowServer(t)
	c, err := New(srv.URL, WithBreakerThreshold(1), WithBreakerTimeout(time.Hour))
	require.NoError(t, err)

	for range 2 {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err = c.List(ctx, Students)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, uint32(0), c.Breaker().Counts().TotalFailures)
	assert.Equal(t, xbreaker.StateClosed, c.Breaker().State())
}

func TestClient_RequestTimeoutTrips(t *testing.T) {
	srv := slowServer(t)
	c, err := New(srv.URL, WithTimeout(20*time.Millisecond),
		WithBreakerThreshold(1), WithBreakerTimeout(time.Hour))
	require.NoError(t, err)

	_, err = c.List(context.Background(), Students)
	require.Error(t, err)
	assert.True(t, xretry.IsRetryable(err))
	assert.Equal(t, uint32(1), c.Breaker().Counts().TotalFailures)
	assert.Equal(t, xbreaker.StateOpen, c.Breaker().State())
}

func TestCountsAsSuccess(t *testing.T) {
	assert.True(t, countsAsSuccess(nil))
	assert.True(t, countsAsSuccess(callerDoneError{err: context.Canceled}))
	assert.True(t, countsAsSuccess(fmt.Errorf("wrap: %w", callerDoneError{err: context.DeadlineExceeded})))
	assert.True(t, countsAsSuccess(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, countsAsSuccess(&APIError{StatusCode: http.StatusBadGateway}))
	assert.False(t, countsAsSuccess(xretry.NewTemporaryError(context.DeadlineExceeded)))
	assert.False(t, countsAsSuccess(errors.New("boom")))
}

func TestResources(t *testing.T) {
	all := Resources()
	assert.Equal(t, []Resource{Students, Coaches, Branches, Courses, Payments}, all)
	all[0] = "mutated"
	assert.Equal(t, Students, Resources()[0])

	r, err := ParseResource(" Payments ")
	require.NoError(t, err)
	assert.Equal(t, Payments, r)

	_, err = ParseResource("instructors")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "", Item{}.ID())
	assert.Equal(t, "", Item{"id": nil}.ID())
	assert.Equal(t, "12", Item{"id": float64(12)}.ID())
	assert.Equal(t, "true", Item{"id": true}.ID())
}

func TestAPIError(t *testing.T) {
	assert.Equal(t, "xbackend: status=500", (&APIError{StatusCode: 500}).Error())
	assert.Contains(t, (&APIError{StatusCode: 400, Message: "bad"}).Error(), "message=bad")
	assert.False(t, errors.Is(&APIError{StatusCode: 400}, ErrNotFound))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, parseAPIError(500, long).Message, 200)

	wide := strings.Repeat("错", 300)
	msg := parseAPIError(502, []byte(wide)).Message
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, 200, utf8.RuneCountInString(msg))
	assert.Equal(t, "ab", truncateRunes("ab", 200))
	assert.Equal(t, "a错", truncateRunes("a错b", 2))
}

func TestClient_PropagatesInvokeIDs(t *testing.T) {
	got := make(chan http.Header, 1)
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Clone()
		writeJSON(w, http.StatusOK, []any{})
	})
	c, err := New(srv.URL)
	require.NoError(t, err)

	ctx, err := xctx.WithChainID(context.Background(), "chain-1")
	require.NoError(t, err)
	ctx, err = xctx.WithCallID(ctx, "students")
	require.NoError(t, err)
	ctx, err = xctx.WithAttempt(ctx, 2)
	require.NoError(t, err)

	_, err = c.List(ctx, Students)
	require.NoError(t, err)

	h := <-got
	assert.Equal(t, "chain-1", h.Get(HeaderChainID))
	assert.Equal(t, "students", h.Get(HeaderCallID))
	assert.Equal(t, "2", h.Get(HeaderAttempt))
	assert.Empty(t, h.Get(HeaderBatchID))
}

package xbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
	"github.com/omeyang/xinvoke/pkg/resilience/xbreaker"
	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

const componentName = "xbackend"

// Client 后端 REST 客户端，并发安全
type Client struct {
	baseURL  string
	http     *resty.Client
	breaker  *xbreaker.Breaker
	logger   xlog.Logger
	observer xmetrics.Observer
}

// New 创建客户端。baseURL 不含资源路径，例如 http://localhost:3000/api。
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	o := options{
		timeout:          DefaultTimeout,
		breakerThreshold: DefaultBreakerThreshold,
		breakerTimeout:   DefaultBreakerTimeout,
		logger:           xlog.Discard(),
		observer:         xmetrics.NoopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger.With(xlog.Component(componentName))

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json").
		SetHeaders(o.headers).
		SetLogger(restyLogger{logger: logger})

	breaker := o.breaker
	if breaker == nil {
		breaker = xbreaker.NewBreaker(componentName,
			xbreaker.WithThreshold(o.breakerThreshold),
			xbreaker.WithTimeout(o.breakerTimeout),
			xbreaker.WithSuccessPolicy(countsAsSuccess),
			xbreaker.WithOnStateChange(func(name string, from, to xbreaker.State) {
				logger.Warn(context.Background(), "circuit breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			}),
		)
	}

	return &Client{
		baseURL:  baseURL,
		http:     rc,
		breaker:  breaker,
		logger:   logger,
		observer: o.observer,
	}, nil
}

// BaseURL 返回规范化后的基础地址
func (c *Client) BaseURL() string { return c.baseURL }

// Breaker 返回客户端使用的熔断器
func (c *Client) Breaker() *xbreaker.Breaker { return c.breaker }

// List 获取资源的全部记录
func (c *Client) List(ctx context.Context, resource Resource) ([]Item, error) {
	if !resource.Valid() {
		return nil, xretry.NewPermanentError(fmt.Errorf("%w: %q", ErrUnknownResource, resource))
	}
	var items []Item
	err := c.get(ctx, resource, "", &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Get 按 id 获取单条记录
func (c *Client) Get(ctx context.Context, resource Resource, id string) (Item, error) {
	if !resource.Valid() {
		return nil, xretry.NewPermanentError(fmt.Errorf("%w: %q", ErrUnknownResource, resource))
	}
	if strings.TrimSpace(id) == "" {
		return nil, xretry.NewPermanentError(ErrEmptyID)
	}
	var item Item
	if err := c.get(ctx, resource, id, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) get(ctx context.Context, resource Resource, id string, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path := "/" + resource.String()
	if id != "" {
		path += "/{id}"
	}

	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "xbackend.get",
		Kind:      xmetrics.KindClient,
		Attrs:     []xmetrics.Attr{xmetrics.String(xmetrics.AttrResource, resource.String())},
	})
	start := time.Now()
	defer func() {
		result := xmetrics.Result{Err: err}
		if ctx.Err() != nil {
			result.Status = xmetrics.StatusCancelled
		}
		span.End(result)
	}()

	body, err := xbreaker.Execute(ctx, c.breaker, func() ([]byte, error) {
		return c.do(ctx, path, id)
	})
	if err != nil {
		if xbreaker.IsBreakerError(err) {
			err = fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		c.logger.Debug(ctx, "backend request failed",
			xlog.Operation(path), xlog.Err(err), xlog.Duration(time.Since(start)))
		return err
	}

	if err = json.Unmarshal(body, out); err != nil {
		err = xretry.NewPermanentError(fmt.Errorf("%w: %w", ErrDecodeResponse, err))
		return err
	}
	c.logger.Debug(ctx, "backend request done", xlog.Operation(path), xlog.Duration(time.Since(start)))
	return nil
}

// do 发送请求并按状态码分类错误，返回 2xx 响应体
func (c *Client) do(ctx context.Context, path, id string) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	injectHeaders(ctx, req.Header)
	if id != "" {
		req.SetPathParam("id", id)
	}
	resp, err := req.Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, callerDoneError{err: ctxErr}
		}
		return nil, xretry.NewTemporaryError(fmt.Errorf("xbackend: request %s failed: %w", path, err))
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, parseAPIError(resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

// parseAPIError 响应体形如 {"message": "..."} 时提取消息，否则截取原文
func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		msg = truncateRunes(msg, maxMessageLen)
	}
	return &APIError{StatusCode: status, Message: msg}
}

// maxMessageLen 非 JSON 错误响应保留的最大字符数
const maxMessageLen = 200

// truncateRunes 按字符截断，不拆开多字节 UTF-8 序列
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// callerDoneError 调用方 context 取消或到期，原样保留 ctx 错误
type callerDoneError struct {
	err error
}

func (e callerDoneError) Error() string { return e.err.Error() }
func (e callerDoneError) Unwrap() error { return e.err }

// countsAsSuccess 客户端错误和调用方取消、到期不应触发熔断。
// 客户端自身的请求超时不在此列，仍计为失败。
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var done callerDoneError
	if errors.As(err, &done) {
		return true
	}
	return xretry.IsPermanent(err)
}

// restyLogger 将 resty 内部日志转到 xlog
type restyLogger struct {
	logger xlog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, v...))
}

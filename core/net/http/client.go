package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochabx/divina/errors"
	"github.com/kochabx/divina/log"
)

const (
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 60 * time.Second

	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024
	maxErrorBodySize  = 64 * 1024
)

// Client is a JSON HTTP client bound to one API base URL.
type Client struct {
	client    *http.Client
	baseURL   string
	requestID func() string
	logger    *log.Logger

	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor

	requestOptPool sync.Pool
	bufferPool     sync.Pool
}

// Option configures the HTTP client
type Option func(*Client)

// WithClient sets a custom HTTP client. Its Timeout is kept unless WithTimeout is also given.
func WithClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			return
		}
		// the caller's client is copied so timeouts set here stay local;
		// the transport and its connection pool are shared
		cp := *client
		c.client = &cp
	}
}

// WithBaseURL sets the URL relative request paths are joined to.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRequestInterceptor appends request interceptors.
func WithRequestInterceptor(i ...RequestInterceptor) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, i...)
	}
}

// WithResponseInterceptor appends response interceptors.
func WithResponseInterceptor(i ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseInterceptors = append(c.responseInterceptors, i...)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRequestID sets the generator for the X-Request-Id header. nil disables the header.
func WithRequestID(fn func() string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

// New creates a client with DefaultTimeout and uuid request ids.
func New(opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: DefaultTimeout},
		requestID: uuid.NewString,
		requestOptPool: sync.Pool{
			New: func() any {
				return &RequestOption{header: make(map[string]string, 8)}
			},
		},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.client.Timeout == 0 {
		c.client.Timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = log.G.Named("http")
	}

	return c
}

// Use registers interceptors after construction. Interceptors that need the
// client themselves (such as session handling) are bound this way.
func (c *Client) Use(req []RequestInterceptor, resp []ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestInterceptors = append(c.requestInterceptors, req...)
	c.responseInterceptors = append(c.responseInterceptors, resp...)
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the effective request timeout.
func (c *Client) Timeout() time.Duration {
	return c.client.Timeout
}

// RequestOption holds options for individual HTTP requests
type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	query    url.Values
	response any
	validate func(status int) bool
}

// WithContext sets the request context
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets request headers, overriding defaults
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithQuery sets the query string
func WithQuery(query url.Values) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.query = query
	}
}

// WithResponse sets the target the JSON body is decoded into
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// WithValidateStatus decides which statuses are returned without error.
// The default accepts 2xx.
func WithValidateStatus(fn func(status int) bool) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.validate = fn
	}
}

// StatusOK accepts 2xx statuses.
func StatusOK(status int) bool {
	return status >= 200 && status < 300
}

func (opt *RequestOption) reset() {
	opt.ctx = nil
	clear(opt.header)
	opt.header[HeaderContentType] = ContentTypeJSON
	opt.header[HeaderAccept] = ContentTypeJSON
	opt.query = nil
	opt.response = nil
	opt.validate = StatusOK
}

// Request sends a request to path, relative to the base URL unless absolute.
//
// The body is always consumed; pass WithResponse to decode it. Transport
// failures are returned as errors.Transport. Statuses rejected by the
// validator are returned together with the response as an *errors.Error
// built from the body.
func (c *Client) Request(method, path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	opt := c.requestOptPool.Get().(*RequestOption)
	opt.reset()
	defer c.requestOptPool.Put(opt)

	for _, o := range opts {
		o(opt)
	}

	ctx := opt.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := c.resolve(path, opt.query)
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "invalid request url")
	}

	req, err := c.createRequest(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "failed to create request")
	}
	for k, v := range opt.header {
		req.Header.Set(k, v)
	}
	if c.requestID != nil {
		req.Header.Set(HeaderRequestID, c.requestID())
	}

	c.mu.RLock()
	reqInterceptors := c.requestInterceptors
	respInterceptors := c.responseInterceptors
	c.mu.RUnlock()

	for _, intercept := range reqInterceptors {
		if err := intercept(req); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Str("method", method).Str("path", path).Dur("duration", time.Since(start)).Err(err).Msg("request failed")
		return nil, errors.Transport(err)
	}
	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(HeaderRequestID)).Dur("duration", time.Since(start)).Msg("request done")

	for _, intercept := range respInterceptors {
		if err := intercept(resp); err != nil {
			resp.Body.Close()
			return resp, err
		}
	}

	return c.processResponse(resp, opt)
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	var (
		u   *url.URL
		err error
	)
	if c.baseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		u, err = url.Parse(path)
	} else {
		var joined string
		joined, err = url.JoinPath(c.baseURL, path)
		if err == nil {
			u, err = url.Parse(joined)
		}
	}
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) createRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	switch v := body.(type) {
	case nil:
		return http.NewRequestWithContext(ctx, method, target, nil)
	case io.Reader:
		return http.NewRequestWithContext(ctx, method, target, v)
	default:
		buf := c.bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer func() {
			if buf.Cap() <= maxBufferSize {
				c.bufferPool.Put(buf)
			}
		}()

		if err := json.NewEncoder(buf).Encode(v); err != nil {
			return nil, err
		}
		// the request body must outlive the pooled buffer
		return http.NewRequestWithContext(ctx, method, target, bytes.NewReader(bytes.Clone(buf.Bytes())))
	}
}

func (c *Client) processResponse(resp *http.Response, opt *RequestOption) (*http.Response, error) {
	if !opt.validate(resp.StatusCode) {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return resp, errors.FromResponse(resp.StatusCode, data)
	}

	defer resp.Body.Close()
	if opt.response == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, errors.Transport(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(data, opt.response); err != nil {
		return resp, errors.Wrap(err, errors.UnknownCode, "invalid response body")
	}
	return resp, nil
}

// Get performs a GET request
func (c *Client) Get(path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with JSON body
func (c *Client) Post(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodPost, path, body, opts...)
}

// Patch performs a PATCH request with JSON body
func (c *Client) Patch(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request
func (c *Client) Delete(path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodDelete, path, nil, opts...)
}

// Package api is the dashboard client. Every call goes through one shared
// HTTP client that carries the session token, and through the cache that
// dedupes queries and invalidates them by tag after mutations.
package api

import (
	"context"
	"io"

	"github.com/kochabx/divina/cache"
	khttp "github.com/kochabx/divina/core/net/http"
	"github.com/kochabx/divina/errors"
	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/metrics"
	"github.com/kochabx/divina/session"
)

// Client is the dashboard API client.
type Client struct {
	http    *khttp.Client
	raw     *khttp.Client
	store   *session.Store
	machine *session.Machine
	cache   *cache.Cache
	logger  *log.Logger

	unsubscribe func()
	closers     []io.Closer
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.BadRequest("api: base url is required")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.G
	}

	httpOpts := []khttp.Option{
		khttp.WithBaseURL(baseURL),
		khttp.WithLogger(logger.Named("http")),
	}
	if o.httpClient != nil {
		httpOpts = append(httpOpts, khttp.WithClient(o.httpClient))
	}
	if o.timeout > 0 {
		httpOpts = append(httpOpts, khttp.WithTimeout(o.timeout))
	}

	c := &Client{
		http:   khttp.New(httpOpts...),
		raw:    khttp.New(httpOpts...),
		logger: logger,
	}
	c.store = session.NewStore(o.persister,
		session.WithPersistKey(o.persistKey),
		session.WithStoreLogger(logger.Named("session")),
	)
	c.machine = session.NewMachine(c.store, &gateway{http: c.http, raw: c.raw},
		session.WithClock(o.clock),
		session.WithNavigator(o.navigator),
		session.WithLogger(logger.Named("session")),
		session.WithMetrics(metrics.NewSession(o.registerer)),
		session.WithPaths(o.paths),
	)

	cacheOpts := []cache.Option{
		cache.WithLogger(logger.Named("cache")),
		cache.WithMetrics(metrics.NewCache(o.registerer)),
		cache.WithKeepUnusedDataFor(o.keepUnused),
		cache.WithRefetchWorkers(o.workers),
	}
	if o.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.clock))
	}
	cc, err := cache.New(cacheOpts...)
	if err != nil {
		_ = c.machine.Close()
		return nil, err
	}
	c.cache = cc

	c.http.Use(
		[]khttp.RequestInterceptor{session.BearerInterceptor(c.store)},
		[]khttp.ResponseInterceptor{session.UnauthorizedInterceptor(c.machine)},
	)
	c.unsubscribe = c.machine.Subscribe(func(ev session.Event) {
		switch ev.Kind {
		case session.EventSignedOut, session.EventReset:
			c.cache.Reset()
		}
	})
	return c, nil
}

// Session returns the session state machine.
func (c *Client) Session() *session.Machine {
	return c.machine
}

// Cache returns the query cache.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// Resume hydrates the session from durable storage and, when signed in,
// validates it so that the refresh timer is armed again.
func (c *Client) Resume(ctx context.Context) (session.Session, error) {
	s := c.store.Hydrate(ctx)
	if !s.Valid() {
		return s, nil
	}
	if _, err := c.ValidateSession(ctx); err != nil {
		return c.machine.Session(), err
	}
	return c.machine.Session(), nil
}

// Close stops the refresh timer and the cache, then releases the storage
// backend. The stored session is kept.
func (c *Client) Close() error {
	c.unsubscribe()
	errs := []error{c.machine.Close(), c.cache.Close()}
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

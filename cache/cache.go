// Package cache 是接口数据缓存：按键去重请求，按标签失效，
// 有订阅的条目在失效后立即重新拉取，无订阅的条目在保留期后回收。
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"

	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/metrics"
)

// Cache 接口缓存
type Cache struct {
	opts *options

	mu      sync.Mutex
	entries map[Key]*entry

	group  singleflight.Group
	pool   *ants.Pool
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	logger  *log.Logger
	metrics *metrics.Cache
}

// New 创建缓存
func New(opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	c := &Cache{
		opts:    o,
		entries: make(map[Key]*entry),
		logger:  o.logger,
		metrics: o.metrics,
	}
	if c.logger == nil {
		c.logger = log.G.Named("cache")
	}
	if c.metrics == nil {
		c.metrics = metrics.NewCache(nil)
	}

	pool, err := ants.NewPool(o.workers, ants.WithPanicHandler(func(p any) {
		c.logger.Error().Interface("panic", p).Msg("refetch panicked")
	}))
	if err != nil {
		return nil, err
	}
	c.pool = pool
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// Query 返回 key 对应的数据。新鲜的缓存直接返回，否则执行 fetch，
// 同一键的并发请求只执行一次。返回的数据为共享值，调用方不应修改。
func Query[T any](ctx context.Context, c *Cache, key Key, tags []Tag, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.query(ctx, key, tags, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return t, nil
}

// Mutate 执行变更，成功后使 invalidates 中的标签失效
func Mutate[T any](ctx context.Context, c *Cache, invalidates []Tag, do func(ctx context.Context) (T, error)) (T, error) {
	v, err := do(ctx)
	if err != nil {
		return v, err
	}
	c.Invalidate(invalidates...)
	return v, nil
}

func (c *Cache) query(ctx context.Context, key Key, tags []Tag, fetch Fetch) (any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key}
		c.entries[key] = e
		c.metrics.Entries.Set(float64(len(c.entries)))
	}
	e.tags = tags
	e.fetch = fetch
	if e.fresh() {
		data := e.data
		c.scheduleGCLocked(e)
		c.mu.Unlock()
		c.metrics.Requests.WithLabelValues("hit").Inc()
		return data, nil
	}
	c.mu.Unlock()

	c.metrics.Requests.WithLabelValues("miss").Inc()
	return c.wait(ctx, e)
}

// wait 等待共享的拉取结果，调用方取消只影响自身的等待
func (c *Cache) wait(ctx context.Context, e *entry) (any, error) {
	ch := c.group.DoChan(string(e.key), func() (any, error) {
		return c.execute(e)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) execute(e *entry) (any, error) {
	c.mu.Lock()
	fetch := e.fetch
	version := e.version
	e.fetching = true
	if e.status != StatusFulfilled {
		e.status = StatusPending
	}
	e.stopGC()
	c.mu.Unlock()

	data, err := fetch(c.ctx)

	c.mu.Lock()
	// 拉取期间被重置或回收，结果不写回
	if c.entries[e.key] != e {
		c.mu.Unlock()
		return data, err
	}
	e.fetching = false
	if err != nil {
		e.status = StatusRejected
		e.err = err
	} else {
		e.status = StatusFulfilled
		e.data = data
		e.err = nil
		e.fulfilledAt = c.opts.clock.Now()
		e.stale = e.version != version
	}
	refetch := e.stale && e.subscribers > 0 && err == nil
	c.scheduleGCLocked(e)
	c.mu.Unlock()

	// 拉取期间被失效，已订阅的条目再拉取一次
	if refetch {
		c.group.Forget(string(e.key))
		c.submit(e)
	}
	return data, err
}

// Invalidate 将提供任一标签的条目标记为过期，已订阅的条目立即重新拉取
func (c *Cache) Invalidate(tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	for _, t := range tags {
		c.metrics.Invalidations.WithLabelValues(string(t)).Inc()
	}

	var refetch []*entry
	c.mu.Lock()
	for _, e := range c.entries {
		if !e.provides(tags) {
			continue
		}
		e.version++
		e.stale = true
		if e.subscribers > 0 && e.fetch != nil {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	for _, e := range refetch {
		c.submit(e)
	}
}

func (c *Cache) submit(e *entry) {
	if c.closed.Load() {
		return
	}
	err := c.pool.Submit(func() {
		c.metrics.Refetches.Inc()
		if _, err := c.wait(c.ctx, e); err != nil {
			c.logger.Debug().Err(err).Str("key", string(e.key)).Msg("refetch failed")
		}
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", string(e.key)).Msg("refetch not scheduled")
	}
}

// Subscribe 订阅条目，订阅期间条目不会被回收。返回的函数取消订阅，可重复调用
func (c *Cache) Subscribe(key Key) func() {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key}
		c.entries[key] = e
		c.metrics.Entries.Set(float64(len(c.entries)))
	}
	e.subscribers++
	e.stopGC()
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e.subscribers--
			if c.entries[key] == e {
				c.scheduleGCLocked(e)
			}
		})
	}
}

// Refetch 忽略缓存重新拉取
func (c *Cache) Refetch(ctx context.Context, key Key) (any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	c.mu.Unlock()
	return c.wait(ctx, e)
}

// State 返回条目快照
func (c *Cache) State(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// Len 当前条目数
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset 清空所有条目，进行中的拉取结果被丢弃
func (c *Cache) Reset() {
	c.mu.Lock()
	for k, e := range c.entries {
		e.stopGC()
		c.group.Forget(string(k))
	}
	c.entries = make(map[Key]*entry)
	c.mu.Unlock()
	c.metrics.Entries.Set(0)
}

// Close 取消进行中的拉取并释放协程池
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()
	c.pool.Release()
	c.Reset()
	return nil
}

func (c *Cache) scheduleGCLocked(e *entry) {
	if e.subscribers > 0 || e.fetching {
		return
	}
	e.stopGC()
	gen := e.gcGen
	e.gc = c.opts.clock.AfterFunc(c.opts.keepUnused, func() { c.evict(e, gen) })
}

func (c *Cache) evict(e *entry, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[e.key] != e || e.gcGen != gen || e.subscribers > 0 || e.fetching {
		return
	}
	delete(c.entries, e.key)
	c.metrics.Entries.Set(float64(len(c.entries)))
	c.logger.Debug().Str("key", string(e.key)).Msg("entry evicted")
}

package cache

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/metrics"
)

const (
	// DefaultKeepUnusedDataFor 无订阅条目的保留时间
	DefaultKeepUnusedDataFor = 60 * time.Second
	// DefaultRefetchWorkers 失效后重新拉取的并发数
	DefaultRefetchWorkers = 8
)

type options struct {
	clock      clockwork.Clock
	keepUnused time.Duration
	workers    int
	logger     *log.Logger
	metrics    *metrics.Cache
}

func defaultOptions() *options {
	return &options{
		clock:      clockwork.NewRealClock(),
		keepUnused: DefaultKeepUnusedDataFor,
		workers:    DefaultRefetchWorkers,
	}
}

// Option 缓存选项
type Option func(*options)

// WithClock 设置时钟，测试中使用假时钟
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithKeepUnusedDataFor 设置无订阅条目的保留时间
func WithKeepUnusedDataFor(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.keepUnused = d
		}
	}
}

// WithRefetchWorkers 设置重新拉取协程池大小
func WithRefetchWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Cache) Option {
	return func(o *options) {
		o.metrics = m
	}
}

package redis

import (
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"

	"github.com/kochabx/divina/log"
)

// Option 客户端配置选项
type Option func(*clientOptions)

type clientOptions struct {
	enableMetrics bool
	enableTracing bool
	enableDebug   bool
	tracingOpts   []redisotel.TracingOption
	metricsOpts   []redisotel.MetricsOption

	logger          *log.Logger
	slowQueryThresh time.Duration
}

// WithMetrics 启用 OpenTelemetry Metrics
func WithMetrics(opts ...redisotel.MetricsOption) Option {
	return func(o *clientOptions) {
		o.enableMetrics = true
		o.metricsOpts = opts
	}
}

// WithTracing 启用 OpenTelemetry 追踪
func WithTracing(opts ...redisotel.TracingOption) Option {
	return func(o *clientOptions) {
		o.enableTracing = true
		o.tracingOpts = opts
	}
}

// WithDebug 记录每条命令，超过阈值的命令记为慢查询，0 表示不检测
func WithDebug(slowQueryThreshold ...time.Duration) Option {
	return func(o *clientOptions) {
		o.enableDebug = true
		if len(slowQueryThreshold) > 0 {
			o.slowQueryThresh = slowQueryThreshold[0]
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

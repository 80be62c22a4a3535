package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/divina/log"
)

// DebugHook 记录命令耗时并检测慢查询
//
// 命令参数中可能包含会话令牌，因此只记录命令名
type DebugHook struct {
	logger          *log.Logger
	slowQueryThresh time.Duration
}

// NewDebugHook 创建调试 Hook，slowQueryThresh 为 0 表示不检测慢查询
func NewDebugHook(logger *log.Logger, slowQueryThresh time.Duration) *DebugHook {
	return &DebugHook{logger: logger, slowQueryThresh: slowQueryThresh}
}

func (h *DebugHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Error().Str("addr", addr).Dur("duration", time.Since(start)).Err(err).Msg("redis dial failed")
		}
		return conn, err
	}
}

func (h *DebugHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe(cmd.FullName(), time.Since(start), err)
		return err
	}
}

func (h *DebugHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.observe("pipeline", time.Since(start), err)
		return err
	}
}

func (h *DebugHook) observe(cmd string, d time.Duration, err error) {
	switch {
	case h.slowQueryThresh > 0 && d > h.slowQueryThresh:
		h.logger.Warn().Str("cmd", cmd).Dur("duration", d).Dur("threshold", h.slowQueryThresh).Msg("slow query detected")
	case err != nil && err != redis.Nil:
		h.logger.Warn().Str("cmd", cmd).Dur("duration", d).Err(err).Msg("redis command failed")
	default:
		h.logger.Debug().Str("cmd", cmd).Dur("duration", d).Msg("redis command")
	}
}

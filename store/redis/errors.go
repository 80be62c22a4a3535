package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNil key 不存在
	ErrNil = redis.Nil

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("redis: invalid configuration")

	// ErrEmptyAddrs 地址列表为空
	ErrEmptyAddrs = errors.New("redis: addrs cannot be empty")

	// ErrInvalidTimeout 超时配置无效
	ErrInvalidTimeout = errors.New("redis: invalid timeout value")

	// ErrEmptyKey 会话键为空
	ErrEmptyKey = errors.New("redis: session key cannot be empty")
)

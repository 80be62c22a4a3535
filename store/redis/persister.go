package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Persister 将会话保存在 Redis 字符串键中
type Persister struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// PersisterOption Persister 选项
type PersisterOption func(*Persister)

// WithKeyPrefix 为会话键添加前缀
func WithKeyPrefix(prefix string) PersisterOption {
	return func(p *Persister) {
		p.prefix = prefix
	}
}

// WithTTL 设置会话键的过期时间，0 表示不过期
func WithTTL(ttl time.Duration) PersisterOption {
	return func(p *Persister) {
		p.ttl = ttl
	}
}

// NewPersister 基于已创建的客户端构建 Persister
func NewPersister(c *Client, opts ...PersisterOption) *Persister {
	p := &Persister{client: c.UniversalClient()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load 读取会话，键不存在时返回 nil, nil
func (p *Persister) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	data, err := p.client.Get(ctx, p.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Save 覆盖写入会话
func (p *Persister) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.client.Set(ctx, p.prefix+key, data, p.ttl).Err()
}

// Delete 删除会话，键不存在不视为错误
func (p *Persister) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.client.Del(ctx, p.prefix+key).Err()
}

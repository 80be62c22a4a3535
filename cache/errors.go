package cache

import "errors"

var (
	// ErrClosed 缓存已关闭
	ErrClosed = errors.New("cache: closed")

	// ErrNotFound 条目不存在或尚未执行过查询
	ErrNotFound = errors.New("cache: entry not found")

	// ErrTypeMismatch 缓存数据与请求的类型不一致
	ErrTypeMismatch = errors.New("cache: type mismatch")
)

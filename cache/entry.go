package cache

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
)

// Tag 数据标签，变更操作按标签使条目失效
type Tag string

// Key 条目键，由接口名与序列化参数组成
type Key string

// NewKey 生成条目键，参数按 JSON 序列化，map 的键有序
func NewKey(endpoint string, args any) Key {
	if args == nil {
		return Key(endpoint + "(undefined)")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return Key(endpoint + "(" + err.Error() + ")")
	}
	return Key(endpoint + "(" + string(data) + ")")
}

// Status 条目状态
type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "uninitialized"
	}
}

// Fetch 拉取函数
type Fetch func(ctx context.Context) (any, error)

type entry struct {
	key   Key
	tags  []Tag
	fetch Fetch

	status      Status
	data        any
	err         error
	stale       bool
	fetching    bool
	version     uint64
	subscribers int
	fulfilledAt time.Time

	gc    clockwork.Timer
	gcGen uint64
}

func (e *entry) provides(tags []Tag) bool {
	for _, t := range tags {
		if slices.Contains(e.tags, t) {
			return true
		}
	}
	return false
}

func (e *entry) fresh() bool {
	return e.status == StatusFulfilled && !e.stale
}

func (e *entry) stopGC() {
	e.gcGen++
	if e.gc != nil {
		e.gc.Stop()
		e.gc = nil
	}
}

// Snapshot 条目的只读视图
type Snapshot struct {
	Status      Status
	Data        any
	Err         error
	Stale       bool
	Fetching    bool
	Subscribers int
	Tags        []Tag
	FulfilledAt time.Time
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Status:      e.status,
		Data:        e.data,
		Err:         e.err,
		Stale:       e.stale,
		Fetching:    e.fetching,
		Subscribers: e.subscribers,
		Tags:        slices.Clone(e.tags),
		FulfilledAt: e.fulfilledAt,
	}
}

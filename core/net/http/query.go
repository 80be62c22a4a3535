package http

import (
	"net/url"
	"strconv"
	"time"
)

// QueryBuilder 链式构建查询参数，零值参数会被跳过
type QueryBuilder struct {
	values url.Values
}

// NewQuery 创建查询参数构建器
func NewQuery() *QueryBuilder {
	return &QueryBuilder{values: make(url.Values)}
}

// String 添加非空字符串参数
func (b *QueryBuilder) String(key, value string) *QueryBuilder {
	if value != "" {
		b.values.Set(key, value)
	}
	return b
}

// Int 添加大于零的整数参数
func (b *QueryBuilder) Int(key string, value int) *QueryBuilder {
	if value > 0 {
		b.values.Set(key, strconv.Itoa(value))
	}
	return b
}

// Bool 添加布尔参数，nil 表示不传
func (b *QueryBuilder) Bool(key string, value *bool) *QueryBuilder {
	if value != nil {
		b.values.Set(key, strconv.FormatBool(*value))
	}
	return b
}

// Date 以 YYYY-MM-DD 格式添加日期参数
func (b *QueryBuilder) Date(key string, value time.Time) *QueryBuilder {
	if !value.IsZero() {
		b.values.Set(key, value.Format(time.DateOnly))
	}
	return b
}

// Values 返回构建结果
func (b *QueryBuilder) Values() url.Values {
	return b.values
}

// Encode 返回按键排序的查询字符串
func (b *QueryBuilder) Encode() string {
	return b.values.Encode()
}

package log

import (
	"github.com/rs/zerolog"

	"github.com/kochabx/divina/log/desensitize"
)

// Option Logger 选项
//
// 脱敏钩子需要在创建 zerolog.Logger 之前确定，其余选项作用于已创建的 Logger
type Option interface {
	preBuild(*Logger)
	apply(*Logger)
}

type optionFunc struct {
	pre  func(*Logger)
	post func(*Logger)
}

func (o optionFunc) preBuild(l *Logger) {
	if o.pre != nil {
		o.pre(l)
	}
}

func (o optionFunc) apply(l *Logger) {
	if o.post != nil {
		o.post(l)
	}
}

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return optionFunc{post: func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}}
}

// WithCaller 记录调用位置
func WithCaller() Option {
	return optionFunc{post: func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}}
}

// WithCallerSkip 设置调用栈跳过的帧数
func WithCallerSkip(skip int) Option {
	return optionFunc{post: func(l *Logger) {
		l.Logger = l.Logger.With().CallerWithSkipFrameCount(skip).Logger()
	}}
}

// WithDesensitize 设置脱敏钩子
func WithDesensitize(hook *desensitize.Hook) Option {
	return optionFunc{pre: func(l *Logger) {
		l.desensitizeHook = hook
	}}
}

// ParseLevel 解析配置中的级别字符串，无法识别时返回 info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

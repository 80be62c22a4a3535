package validator

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Validator 校验器接口
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error

	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error

	// GetValidator 获取底层的 validator 实例
	GetValidator() *validator.Validate
}

// ValidationErrors 校验错误
type ValidationErrors interface {
	error
	Errors() []FieldError
}

// FieldError 字段错误
type FieldError interface {
	// Field 字段名，取自 json 标签
	Field() string
	Tag() string
	Value() any
	// Message 默认语言的错误消息
	Message() string
	// Translate 翻译为指定语言，未注册的语言返回默认消息
	Translate(lang string) string
}

// ValidationOption 校验器选项
type ValidationOption func(*validatorImpl)

// WithTagName 设置校验标签名
func WithTagName(tagName string) ValidationOption {
	return func(v *validatorImpl) {
		v.validator.SetTagName(tagName)
	}
}

// WithDefaultLanguage 设置默认语言 ("es" 或 "en")
func WithDefaultLanguage(lang string) ValidationOption {
	return func(v *validatorImpl) {
		v.defaultLang = lang
	}
}

package validator

import (
	"errors"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type validationErrors struct {
	fields  []FieldError
	message string
}

func (ve *validationErrors) Error() string {
	return ve.message
}

func (ve *validationErrors) Errors() []FieldError {
	return ve.fields
}

type fieldError struct {
	validator.FieldError
	message     string
	translators map[string]ut.Translator
}

func (fe *fieldError) Message() string {
	return fe.message
}

func (fe *fieldError) Translate(lang string) string {
	if trans, ok := fe.translators[lang]; ok {
		return fe.FieldError.Translate(trans)
	}
	return fe.message
}

// Messages 返回每个字段的错误消息，非校验错误返回 err.Error()
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve.Errors()))
	for _, fe := range ve.Errors() {
		msgs = append(msgs, fe.Message())
	}
	return msgs
}

// HasFieldError 检查是否存在指定字段的错误
func HasFieldError(err error, field string) bool {
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return false
	}
	for _, fe := range ve.Errors() {
		if fe.Field() == field {
			return true
		}
	}
	return false
}

// IsValidationError 检查是否为校验错误
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

type validatorImpl struct {
	validator   *validator.Validate
	translators map[string]ut.Translator
	defaultLang string
}

// Validate 全局校验器实例
var Validate = New()

// New 创建校验器，注册英文与西班牙文翻译，默认使用西班牙文
func New(opts ...ValidationOption) Validator {
	v := &validatorImpl{
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		translators: make(map[string]ut.Translator, 2),
		defaultLang: "es",
	}

	// 错误中的字段名使用 json 标签，与接口字段保持一致
	v.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	for _, opt := range opts {
		opt(v)
	}

	uni := ut.New(en.New(), en.New(), es.New())
	if trans, found := uni.GetTranslator("en"); found {
		v.translators["en"] = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}
	if trans, found := uni.GetTranslator("es"); found {
		v.translators["es"] = trans
		_ = es_translations.RegisterDefaultTranslations(v.validator, trans)
	}
	if _, ok := v.translators[v.defaultLang]; !ok {
		v.defaultLang = "es"
	}

	return v
}

func (v *validatorImpl) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.StructCtx(ctx, s))
}

func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

func (v *validatorImpl) translate(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	trans := v.translators[v.defaultLang]
	out := &validationErrors{fields: make([]FieldError, 0, len(ves))}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		f := &fieldError{FieldError: fe, message: fe.Translate(trans), translators: v.translators}
		out.fields = append(out.fields, f)
		msgs = append(msgs, f.message)
	}
	out.message = strings.Join(msgs, "; ")
	return out
}

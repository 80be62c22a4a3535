package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credential struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidatorCreation(t *testing.T) {
	assert.NotNil(t, Validate)
	assert.NotNil(t, New(WithTagName("validate"), WithDefaultLanguage("en")))
}

func TestValidCredential(t *testing.T) {
	err := Validate.Struct(credential{Email: "admin@divinalaser.com", Password: "12345678"})
	assert.NoError(t, err)
}

func TestInvalidCredential(t *testing.T) {
	err := Validate.Struct(credential{Email: "admin", Password: "123"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, HasFieldError(err, "email"))
	assert.True(t, HasFieldError(err, "password"))
	assert.Len(t, Messages(err), 2)
}

func TestTranslations(t *testing.T) {
	v := New(WithDefaultLanguage("en"))
	err := v.StructCtx(context.Background(), credential{Password: "12345678"})
	require.Error(t, err)

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors(), 1)

	fe := ve.Errors()[0]
	assert.Equal(t, "email", fe.Field())
	assert.Equal(t, "required", fe.Tag())
	assert.True(t, strings.Contains(fe.Message(), "email"))
	assert.NotEqual(t, fe.Message(), fe.Translate("es"))
	assert.Equal(t, fe.Message(), fe.Translate("fr"))
}

func TestNilTarget(t *testing.T) {
	assert.Error(t, Validate.Struct(nil))
}

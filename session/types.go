package session

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SignInCredential is the body of auth/sign-in.
type SignInCredential struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUpCredential is the body of auth/sign-up.
type SignUpCredential struct {
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by sign-in, sign-up and refresh.
type TokenResponse struct {
	AccessToken         string      `json:"access_token"`
	RefreshToken        string      `json:"refresh_token"`
	ExpirationInSeconds int         `json:"expirationInSeconds"`
	Type                AccountType `json:"type"`
	Rol                 Role        `json:"rol"`
	Sede                int         `json:"sede"`
}

// RefreshRequest is the body of auth/refresh.
type RefreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ValidateResponse is returned by auth/validate.
type ValidateResponse struct {
	Status              TokenStatus `json:"status"`
	ExpirationInSeconds int         `json:"expirationInSeconds"`
	Type                AccountType `json:"type"`
}

// TokenStatus is the token state reported by auth/validate. The API has sent
// it both as a string and as a number, so both decode.
type TokenStatus string

func (s *TokenStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = TokenStatus(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = TokenStatus(n.String())
	return nil
}

// RefreshResult is the outcome of a refresh call. Any status up to 500 is a
// result rather than an error; only StatusCode 200 with tokens is a success.
type RefreshResult struct {
	StatusCode int
	Tokens     *TokenResponse
}

func (r *RefreshResult) ok() bool {
	return r != nil && r.StatusCode == 200 && r.Tokens != nil &&
		r.Tokens.AccessToken != "" && r.Tokens.RefreshToken != ""
}

func (r *RefreshResult) String() string {
	if r == nil {
		return "<nil>"
	}
	return strconv.Itoa(r.StatusCode)
}

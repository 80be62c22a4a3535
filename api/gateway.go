package api

import (
	"context"
	"net/http"

	khttp "github.com/kochabx/divina/core/net/http"
	"github.com/kochabx/divina/session"
)

const (
	pathSignIn         = "auth/sign-in"
	pathSignUp         = "auth/sign-up"
	pathSignOut        = "auth/sign-out"
	pathRefresh        = "auth/refresh"
	pathValidate       = "auth/validate"
	pathForgotPassword = "auth/forgot-password"
	pathResetPassword  = "auth/reset-password"
)

// gateway performs the auth calls of session.Machine. Refresh uses the raw
// client, which carries neither the bearer token nor the 401 handler.
type gateway struct {
	http *khttp.Client
	raw  *khttp.Client
}

func (g *gateway) SignIn(ctx context.Context, cred session.SignInCredential) (*session.TokenResponse, error) {
	var out session.TokenResponse
	if _, err := g.http.Post(pathSignIn, cred, khttp.WithContext(ctx), khttp.WithResponse(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gateway) SignUp(ctx context.Context, cred session.SignUpCredential) (*session.TokenResponse, error) {
	var out session.TokenResponse
	if _, err := g.http.Post(pathSignUp, cred, khttp.WithContext(ctx), khttp.WithResponse(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gateway) SignOut(ctx context.Context) error {
	_, err := g.http.Post(pathSignOut, nil, khttp.WithContext(ctx))
	return err
}

// refreshStatus accepts every status up to 500 as a result.
func refreshStatus(status int) bool {
	return status <= http.StatusInternalServerError
}

func (g *gateway) Refresh(ctx context.Context, req session.RefreshRequest) (*session.RefreshResult, error) {
	var out session.TokenResponse
	resp, err := g.raw.Post(pathRefresh, req,
		khttp.WithContext(ctx),
		khttp.WithValidateStatus(refreshStatus),
		khttp.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &session.RefreshResult{StatusCode: resp.StatusCode, Tokens: &out}, nil
}

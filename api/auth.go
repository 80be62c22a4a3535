package api

import (
	"context"
	"net/http"

	"github.com/kochabx/divina/cache"
	"github.com/kochabx/divina/session"
)

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// SignIn signs in and navigates to redirect, or to the authenticated entry
// when redirect is empty.
func (c *Client) SignIn(ctx context.Context, cred session.SignInCredential, redirect string) error {
	return c.machine.SignIn(ctx, cred, redirect)
}

func (c *Client) SignUp(ctx context.Context, cred session.SignUpCredential, redirect string) error {
	return c.machine.SignUp(ctx, cred, redirect)
}

// SignOut ends the session. It never fails locally.
func (c *Client) SignOut(ctx context.Context) {
	c.machine.SignOut(ctx)
}

func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := validate(ctx, req); err != nil {
		return err
	}
	_, err := mutate[*Message](ctx, c, nil, http.MethodPost, pathForgotPassword, req)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate(ctx, req); err != nil {
		return err
	}
	_, err := mutate[*Message](ctx, c, nil, http.MethodPost, pathResetPassword, req)
	return err
}

// ValidateSession asks the API for the remaining lifetime of the access
// token. Every network execution re-arms the refresh timer; cache hits do not.
func (c *Client) ValidateSession(ctx context.Context) (*session.ValidateResponse, error) {
	return cache.Query(ctx, c.cache, cache.NewKey("validateSession", nil), nil,
		func(ctx context.Context) (*session.ValidateResponse, error) {
			out, err := get[*session.ValidateResponse](ctx, c, pathValidate, nil)
			if err != nil {
				return nil, err
			}
			if out != nil {
				c.machine.Validated(ctx, *out)
			}
			return out, nil
		})
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	return query[*User](ctx, c, "getMyInfo", nil, nil, "me", nil)
}

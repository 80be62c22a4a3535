package session

import (
	"context"
	"net/http"
	"slices"

	khttp "github.com/kochabx/divina/core/net/http"
)

// TokenType is the Authorization scheme of the access token.
const TokenType = "Bearer"

// UnauthorizedStatuses trigger HandleUnauthorized when returned by the API.
var UnauthorizedStatuses = []int{http.StatusUnauthorized}

// BearerInterceptor attaches the access token of store to every request.
// Requests made while signed out go out without Authorization.
func BearerInterceptor(store *Store) khttp.RequestInterceptor {
	return func(req *http.Request) error {
		if s := store.Read(req.Context()); s.SignedIn && s.AccessToken != "" {
			req.Header.Set(khttp.HeaderAuthorization, TokenType+" "+s.AccessToken)
		}
		return nil
	}
}

// UnauthorizedInterceptor signs m out on an unauthorized response. The
// response itself still fails to the caller; nothing is retried.
func UnauthorizedInterceptor(m *Machine) khttp.ResponseInterceptor {
	return func(resp *http.Response) error {
		if !slices.Contains(UnauthorizedStatuses, resp.StatusCode) {
			return nil
		}
		ctx := context.Background()
		if resp.Request != nil {
			ctx = context.WithoutCancel(resp.Request.Context())
		}
		m.HandleUnauthorized(ctx)
		return nil
	}
}

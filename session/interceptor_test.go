package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	khttp "github.com/kochabx/divina/core/net/http"
	"github.com/kochabx/divina/errors"
)

func TestInterceptors(t *testing.T) {
	var (
		lastAuth atomic.Value
		status   atomic.Int32
	)
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
	}))
	defer srv.Close()

	f := newFixture(t)
	client := khttp.New(khttp.WithBaseURL(srv.URL))
	client.Use(
		[]khttp.RequestInterceptor{BearerInterceptor(f.store)},
		[]khttp.ResponseInterceptor{UnauthorizedInterceptor(f.m)},
	)

	_, err := client.Get("customers")
	require.NoError(t, err)
	assert.Equal(t, "", lastAuth.Load())

	f.signIn(t)
	_, err = client.Get("customers")
	require.NoError(t, err)
	assert.Equal(t, "Bearer A1", lastAuth.Load())

	status.Store(http.StatusUnauthorized)
	_, err = client.Get("customers", khttp.WithContext(context.Background()))
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
	assert.False(t, f.m.Session().SignedIn)
	assert.False(t, f.m.Armed())
	assert.Equal(t, 1, f.rec.count(EventSignedOut))
}

func TestBearerHydratesFromStorage(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	NewStore(p).Write(ctx, Session{SignedIn: true, AccessToken: "A9", RefreshToken: "R9"})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	require.NoError(t, BearerInterceptor(NewStore(p))(req))
	assert.Equal(t, "Bearer A9", req.Header.Get(khttp.HeaderAuthorization))
}

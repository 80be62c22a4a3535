package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/divina/errors"
)

type customer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRequestJSON(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, ContentTypeJSON, r.Header.Get(HeaderContentType))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		var in customer
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 7
		_ = json.NewEncoder(w).Encode(in)
	})

	c := New(WithBaseURL(srv.URL + "/api"))
	var out customer
	resp, err := c.Request(http.MethodPost, "customers", customer{Name: "María"},
		WithQuery(NewQuery().Int("page", 2).Values()),
		WithResponse(&out),
	)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, customer{ID: 7, Name: "María"}, out)
}

func TestDefaultTimeout(t *testing.T) {
	assert.Equal(t, 60*time.Second, New().Timeout())
	assert.Equal(t, time.Second, New(WithTimeout(time.Second)).Timeout())
}

func TestWithClientIsCopied(t *testing.T) {
	hc := &http.Client{}
	a := New(WithClient(hc), WithTimeout(time.Second))
	b := New(WithClient(hc))

	assert.Zero(t, hc.Timeout)
	assert.Equal(t, time.Second, a.Timeout())
	assert.Equal(t, DefaultTimeout, b.Timeout())
}

func TestErrorNormalization(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"statusCode":400,"message":["name should not be empty"],"error":"Bad Request"}`)
	})

	c := New(WithBaseURL(srv.URL))
	resp, err := c.Post("customers", map[string]string{})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, errors.CodeOf(err))
	assert.Equal(t, "name should not be empty", errors.MessageOf(err))
}

func TestValidateStatus(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"statusCode":401,"message":"Token expirado"}`)
	})

	c := New(WithBaseURL(srv.URL))
	resp, err := c.Post("auth/refresh", nil, WithValidateStatus(func(s int) bool { return s <= 500 }))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(WithBaseURL(url)).Get("me")
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
}

func TestInterceptors(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderAuthorization) != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	var seen atomic.Int32
	c := New(WithBaseURL(srv.URL))
	c.Use(
		[]RequestInterceptor{func(r *http.Request) error {
			r.Header.Set(HeaderAuthorization, "Bearer abc")
			return nil
		}},
		[]ResponseInterceptor{func(r *http.Response) error {
			seen.Store(int32(r.StatusCode))
			return nil
		}},
	)

	_, err := c.Get("me", WithContext(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, int32(http.StatusNoContent), seen.Load())
}

func TestRequestInterceptorAborts(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	boom := errors.BadRequest("blocked")
	c := New(WithBaseURL(srv.URL), WithRequestInterceptor(func(*http.Request) error { return boom }))
	_, err := c.Get("me")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, hits.Load())
}

func TestAbsolutePath(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
	})

	_, err := New(WithBaseURL("http://127.0.0.1:1/api")).Get(srv.URL + "/health")
	require.NoError(t, err)
}

func TestQueryBuilder(t *testing.T) {
	paginated := false
	q := NewQuery().
		Int("page", 1).
		Int("limit", 0).
		String("search", "").
		String("sedeId", "2").
		Bool("paginated", &paginated).
		Date("startDate", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "page=1&paginated=false&sedeId=2&startDate=2024-03-09", q.Encode())
}

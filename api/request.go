package api

import (
	"context"
	"net/url"
	"path"

	"github.com/kochabx/divina/cache"
	khttp "github.com/kochabx/divina/core/net/http"
	"github.com/kochabx/divina/core/validator"
	"github.com/kochabx/divina/errors"
)

type requestOption = func(*khttp.RequestOption)

// resource joins path segments, escaping each one.
func resource(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return path.Join(escaped...)
}

func get[T any](ctx context.Context, c *Client, p string, q *khttp.QueryBuilder) (T, error) {
	var out T
	opts := []requestOption{khttp.WithContext(ctx), khttp.WithResponse(&out)}
	if q != nil {
		opts = append(opts, khttp.WithQuery(q.Values()))
	}
	_, err := c.http.Get(p, opts...)
	return out, err
}

// query runs a cached GET of p. args identify the entry together with endpoint.
func query[T any](ctx context.Context, c *Client, endpoint string, args any, provides []cache.Tag, p string, q *khttp.QueryBuilder) (T, error) {
	return cache.Query(ctx, c.cache, cache.NewKey(endpoint, args), provides, func(ctx context.Context) (T, error) {
		return get[T](ctx, c, p, q)
	})
}

// mutate sends body to p and invalidates tags on success.
func mutate[T any](ctx context.Context, c *Client, invalidates []cache.Tag, method, p string, body any, opts ...requestOption) (T, error) {
	return cache.Mutate(ctx, c.cache, invalidates, func(ctx context.Context) (T, error) {
		var out T
		all := append([]requestOption{khttp.WithContext(ctx), khttp.WithResponse(&out)}, opts...)
		_, err := c.http.Request(method, p, body, all...)
		return out, err
	})
}

func validate(ctx context.Context, in any) error {
	if err := validator.Validate.StructCtx(ctx, in); err != nil {
		return errors.BadRequest("%s", err.Error()).WithCause(err)
	}
	return nil
}

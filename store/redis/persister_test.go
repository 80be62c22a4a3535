package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/divina/log"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), Single(mr.Addr()), WithLogger(log.Nop()), WithDebug())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestPersister(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	p := NewPersister(c, WithKeyPrefix("divina:"), WithTTL(time.Hour))

	data, err := p.Load(ctx, "divina-admin")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, p.Save(ctx, "divina-admin", []byte(`{"auth":{}}`)))
	assert.True(t, mr.Exists("divina:divina-admin"))
	assert.Equal(t, time.Hour, mr.TTL("divina:divina-admin"))

	data, err = p.Load(ctx, "divina-admin")
	require.NoError(t, err)
	assert.Equal(t, `{"auth":{}}`, string(data))

	require.NoError(t, p.Delete(ctx, "divina-admin"))
	require.NoError(t, p.Delete(ctx, "divina-admin"))
	assert.False(t, mr.Exists("divina:divina-admin"))
}

func TestPersisterEmptyKey(t *testing.T) {
	c, _ := newTestClient(t)
	p := NewPersister(c)
	_, err := p.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, p.Save(context.Background(), "", nil), ErrEmptyKey)
}

func TestConfig(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.Equal(t, "sentinel", Sentinel("master", "a:26379").Mode())
	assert.Equal(t, "cluster", Cluster("a:7000", "b:7000").Mode())
	assert.Equal(t, "single", Single("a:6379").Mode())

	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

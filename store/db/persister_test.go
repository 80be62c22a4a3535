package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/divina/log"
)

func newSQLite(t *testing.T) *Client {
	t.Helper()
	c, err := New(context.Background(), &SQLiteConfig{
		FilePath: filepath.Join(t.TempDir(), "divina.db"),
	}, WithLogger(log.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPersister(t *testing.T) {
	ctx := context.Background()
	p, err := NewPersister(ctx, newSQLite(t))
	require.NoError(t, err)

	data, err := p.Load(ctx, "divina-admin")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, p.Save(ctx, "divina-admin", []byte(`{"v":1}`)))
	require.NoError(t, p.Save(ctx, "divina-admin", []byte(`{"v":2}`)))

	data, err = p.Load(ctx, "divina-admin")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	require.NoError(t, p.Delete(ctx, "divina-admin"))
	data, err = p.Load(ctx, "divina-admin")
	require.NoError(t, err)
	assert.Nil(t, data)

	assert.ErrorIs(t, p.Save(ctx, "", nil), ErrEmptyKey)
}

func TestClientStats(t *testing.T) {
	c := newSQLite(t)
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, 1, c.Stats().MaxOpenConnections)
}

func TestConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	pg := &PostgresConfig{Database: "divina", Password: "secret"}
	dsn := pg.DSN()
	assert.True(t, strings.Contains(dsn, "host=localhost port=5432"))
	assert.True(t, strings.Contains(dsn, "TimeZone=America/Caracas"))
	assert.Equal(t, 100, pg.Pool().MaxOpenConns)
	assert.Equal(t, DriverPostgres, pg.Driver())

	lite := &SQLiteConfig{}
	assert.Equal(t, "file:./divina.db?_journal_mode=WAL&_busy_timeout=5000", lite.DSN())
	assert.Equal(t, LogLevelSilent, lite.LogLevel())
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
}

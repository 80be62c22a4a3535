package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/divina/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "divina.yaml", "api:\n  baseURL: https://api.divinalaser.com/api/v1\n")

	s, err := Load("divina.yaml", dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.divinalaser.com/api/v1", s.API.BaseURL)
	assert.Equal(t, 60*time.Second, s.API.Timeout)
	assert.Equal(t, "divina-admin", s.Session.PersistKey)
	assert.Equal(t, "/clientes", s.Session.AuthenticatedEntryPath)
	assert.Equal(t, "/sign-in", s.Session.UnauthenticatedEntryPath)
	assert.Equal(t, BackendMemory, s.Storage.Backend)
	assert.False(t, s.Storage.Redis.Debug)
	assert.Equal(t, 100*time.Millisecond, s.Storage.Redis.SlowQueryThreshold)
	assert.Equal(t, 60*time.Second, s.Cache.KeepUnusedDataFor)
	assert.Equal(t, 8, s.Cache.RefetchWorkers)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "divina.yaml", `
api:
  baseURL: http://localhost:3000/api
  timeout: 5s
storage:
  backend: redis
  redis:
    addrs: ["cache:6379"]
    db: 2
    debug: true
    slow_query_threshold: 250ms
    tracing: true
cache:
  keepUnusedDataFor: 2m
`)

	s, err := Load("divina.yaml", dir)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, s.API.Timeout)
	assert.Equal(t, BackendRedis, s.Storage.Backend)
	assert.Equal(t, []string{"cache:6379"}, s.Storage.Redis.Addrs)
	assert.Equal(t, 2, s.Storage.Redis.DB)
	assert.True(t, s.Storage.Redis.Debug)
	assert.Equal(t, 250*time.Millisecond, s.Storage.Redis.SlowQueryThreshold)
	assert.True(t, s.Storage.Redis.Tracing)
	assert.False(t, s.Storage.Redis.Metrics)
	assert.Equal(t, 2*time.Minute, s.Cache.KeepUnusedDataFor)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("DIVINA_API_BASEURL", "http://env.local/api")
	t.Setenv("DIVINA_STORAGE_BACKEND", "file")

	s, err := Load("missing.yaml", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://env.local/api", s.API.BaseURL)
	assert.Equal(t, BackendFile, s.Storage.Backend)
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "divina.yaml", "storage:\n  backend: mongo\n")

	_, err := Load("divina.yaml", dir)
	require.Error(t, err)
	assert.Equal(t, 400, errors.CodeOf(err))
}

func TestReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "divina.yaml", "api:\n  baseURL: http://a.local\n")

	s := new(Settings)
	changed := make(chan struct{}, 1)
	c := New(s, WithOnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))
	c.loader = NewFileLoader("divina.yaml", []string{dir}, c.viper, c.validate, WithDefaults(Defaults()))
	require.NoError(t, c.Load())
	require.NoError(t, c.Watch())

	writeFile(t, dir, "divina.yaml", "api:\n  baseURL: http://b.local\n")

	select {
	case <-changed:
		c.Read(func(target any) {
			assert.Equal(t, "http://b.local", target.(*Settings).API.BaseURL)
		})
	case <-time.After(5 * time.Second):
		t.Skip("file watcher did not report the change")
	}
}

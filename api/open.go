package api

import (
	"context"
	"fmt"
	"io"

	"github.com/kochabx/divina/config"
	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/log/desensitize"
	"github.com/kochabx/divina/session"
	"github.com/kochabx/divina/store/db"
	"github.com/kochabx/divina/store/file"
	"github.com/kochabx/divina/store/redis"
)

// RedisKeyPrefix prefixes session keys stored in redis.
const RedisKeyPrefix = "divina:"

// Open creates a Client from settings: the logger, the session storage
// backend, the entry paths and the cache tuning. opts are applied last.
func Open(ctx context.Context, s *config.Settings, opts ...Option) (*Client, error) {
	logger, err := openLogger(s.Log)
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{logger}

	persister, closer, err := openPersister(ctx, s.Storage, logger.Named("store"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	base := []Option{
		WithLogger(logger),
		WithPersister(persister),
		WithPersistKey(s.Session.PersistKey),
		WithTimeout(s.API.Timeout),
		WithPaths(session.Paths{
			AuthenticatedEntry:   s.Session.AuthenticatedEntryPath,
			UnauthenticatedEntry: s.Session.UnauthenticatedEntryPath,
		}),
		WithKeepUnusedDataFor(s.Cache.KeepUnusedDataFor),
		WithRefetchWorkers(s.Cache.RefetchWorkers),
	}
	c, err := New(s.API.BaseURL, append(base, opts...)...)
	if err != nil {
		for _, cl := range closers {
			_ = cl.Close()
		}
		return nil, err
	}
	// close in reverse opening order
	for i := len(closers) - 1; i >= 0; i-- {
		c.closers = append(c.closers, closers[i])
	}
	return c, nil
}

func openLogger(s config.LogSettings) (*log.Logger, error) {
	opts := []log.Option{
		log.WithLevel(log.ParseLevel(s.Level)),
		log.WithDesensitize(desensitize.Default()),
	}
	if s.File == nil {
		return log.New(opts...), nil
	}
	return log.NewMulti(*s.File, opts...)
}

func openPersister(ctx context.Context, s config.StorageSettings, logger *log.Logger) (session.Persister, io.Closer, error) {
	switch s.Backend {
	case "", config.BackendMemory:
		return session.NewMemoryPersister(), nil, nil

	case config.BackendFile:
		p, err := file.NewPersister(s.File.Dir)
		return p, nil, err

	case config.BackendRedis:
		client, err := redis.New(ctx, &s.Redis.Config, redisOptions(s.Redis, logger)...)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewPersister(client, redis.WithKeyPrefix(RedisKeyPrefix)), client, nil

	case config.BackendSQLite, config.BackendPostgres:
		var cfg db.DriverConfig = &s.SQLite
		if s.Backend == config.BackendPostgres {
			cfg = &s.Postgres
		}
		client, err := db.New(ctx, cfg, db.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		p, err := db.NewPersister(ctx, client)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return p, client, nil

	default:
		return nil, nil, fmt.Errorf("api: unknown storage backend %q", s.Backend)
	}
}

func redisOptions(s config.RedisSettings, logger *log.Logger) []redis.Option {
	opts := []redis.Option{redis.WithLogger(logger)}
	if s.Debug {
		opts = append(opts, redis.WithDebug(s.SlowQueryThreshold))
	}
	if s.Metrics {
		opts = append(opts, redis.WithMetrics())
	}
	if s.Tracing {
		opts = append(opts, redis.WithTracing())
	}
	return opts
}

package config

import (
	"time"

	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/store/db"
	"github.com/kochabx/divina/store/redis"
)

// EnvPrefix prefixes environment overrides, e.g. DIVINA_API_BASEURL.
const EnvPrefix = "DIVINA"

// Storage backends for the persisted session.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Settings is the dashboard client configuration.
type Settings struct {
	API     APISettings     `mapstructure:"api"`
	Session SessionSettings `mapstructure:"session"`
	Storage StorageSettings `mapstructure:"storage"`
	Cache   CacheSettings   `mapstructure:"cache"`
	Log     LogSettings     `mapstructure:"log"`
}

type APISettings struct {
	BaseURL string        `mapstructure:"baseurl" json:"baseURL" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
}

type SessionSettings struct {
	// PersistKey is the single key the session mirror is stored under.
	PersistKey               string `mapstructure:"persistkey" json:"persistKey" validate:"required"`
	AuthenticatedEntryPath   string `mapstructure:"authenticatedentrypath" json:"authenticatedEntryPath" validate:"required,startswith=/"`
	UnauthenticatedEntryPath string `mapstructure:"unauthenticatedentrypath" json:"unauthenticatedEntryPath" validate:"required,startswith=/"`
}

type StorageSettings struct {
	Backend  string            `mapstructure:"backend" json:"backend" validate:"oneof=memory file redis sqlite postgres"`
	File     FileSettings      `mapstructure:"file"`
	Redis    RedisSettings     `mapstructure:"redis"`
	SQLite   db.SQLiteConfig   `mapstructure:"sqlite"`
	Postgres db.PostgresConfig `mapstructure:"postgres"`
}

// RedisSettings is the redis connection plus the client instrumentation.
type RedisSettings struct {
	redis.Config `mapstructure:",squash"`
	// Debug logs every command; commands slower than SlowQueryThreshold are
	// logged as slow queries.
	Debug              bool          `mapstructure:"debug" json:"debug"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold" json:"slowQueryThreshold"`
	Metrics            bool          `mapstructure:"metrics" json:"metrics"`
	Tracing            bool          `mapstructure:"tracing" json:"tracing"`
}

type FileSettings struct {
	Dir string `mapstructure:"dir"`
}

type CacheSettings struct {
	KeepUnusedDataFor time.Duration `mapstructure:"keepunuseddatafor" json:"keepUnusedDataFor" validate:"gt=0"`
	RefetchWorkers    int           `mapstructure:"refetchworkers" json:"refetchWorkers" validate:"gt=0"`
}

type LogSettings struct {
	Level string          `mapstructure:"level" json:"level" validate:"oneof=trace debug info warn error disabled"`
	File  *log.FileConfig `mapstructure:"file"`
}

// Defaults returns the default value of every key, so that each key can also
// be set from the environment.
func Defaults() map[string]any {
	return map[string]any{
		"api.baseurl":                        "",
		"api.timeout":                        60 * time.Second,
		"session.persistkey":                 "divina-admin",
		"session.authenticatedentrypath":     "/clientes",
		"session.unauthenticatedentrypath":   "/sign-in",
		"storage.backend":                    BackendMemory,
		"storage.file.dir":                   ".divina",
		"storage.redis.addrs":                []string{"localhost:6379"},
		"storage.redis.debug":                false,
		"storage.redis.slow_query_threshold": 100 * time.Millisecond,
		"storage.redis.metrics":              false,
		"storage.redis.tracing":              false,
		"storage.sqlite.file_path":           "./divina.db",
		"storage.postgres.host":              "localhost",
		"storage.postgres.database":          "divina",
		"cache.keepunuseddatafor":            60 * time.Second,
		"cache.refetchworkers":               8,
		"log.level":                          "info",
	}
}

// Load reads Settings from name (a yaml file searched in paths), the
// environment and the defaults.
func Load(name string, paths ...string) (*Settings, error) {
	s := new(Settings)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	c := New(s)
	c.loader = NewFileLoader(name, paths, c.viper, c.validate,
		WithEnvPrefix(EnvPrefix),
		WithDefaults(Defaults()),
		WithOptionalFile(),
	)
	if err := c.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

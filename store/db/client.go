package db

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kochabx/divina/log"
)

// Client 数据库客户端
type Client struct {
	config DriverConfig
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *log.Logger
}

// New 创建数据库客户端并检查连通性
func New(ctx context.Context, cfg DriverConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = log.G.Named("store")
	}

	var dialector gorm.Dialector
	switch cfg.Driver() {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, ErrUnsupportedDriver
	}

	lc := logger.Config{
		LogLevel:                  logger.LogLevel(cfg.LogLevel()),
		IgnoreRecordNotFoundError: true,
		SlowThreshold:             o.slowQueryThresh,
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.New(gormLogWriter{o.logger}, lc)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	pool := cfg.Pool()
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	for _, plugin := range o.plugins {
		if err := db.Use(plugin); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	c := &Client{config: cfg, db: db, sqlDB: sqlDB, logger: o.logger}

	pingCtx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.logger.Debug().Str("driver", cfg.Driver().String()).Msg("database client created")
	return c, nil
}

// DB 获取 GORM 数据库实例
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Ping 测试数据库连接
func (c *Client) Ping(ctx context.Context) error {
	if c.sqlDB == nil {
		return ErrNotInitialized
	}
	return c.sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (c *Client) Close() error {
	if c.sqlDB != nil {
		return c.sqlDB.Close()
	}
	return nil
}

// Stats 获取连接池统计信息
func (c *Client) Stats() sql.DBStats {
	if c.sqlDB == nil {
		return sql.DBStats{}
	}
	return c.sqlDB.Stats()
}

// gormLogWriter 将 GORM 日志写入 log.Logger
type gormLogWriter struct {
	logger *log.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.logger.Info().Msgf(format, args...)
}

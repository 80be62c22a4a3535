package db

import (
	"strings"
	"time"
)

// Driver 数据库驱动类型
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// LogLevel 与 gorm logger.LogLevel 取值一致
type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

func (p *PoolConfig) withDefaults(idle, open int) *PoolConfig {
	if p.MaxIdleConns == 0 {
		p.MaxIdleConns = idle
	}
	if p.MaxOpenConns == 0 {
		p.MaxOpenConns = open
	}
	if p.ConnMaxLifetime == 0 {
		p.ConnMaxLifetime = time.Hour
	}
	if p.ConnMaxIdleTime == 0 {
		p.ConnMaxIdleTime = 10 * time.Minute
	}
	return p
}

// DriverConfig 驱动配置
type DriverConfig interface {
	Driver() Driver
	DSN() string
	Pool() *PoolConfig
	LogLevel() LogLevel
}

// ParseLogLevel 解析日志级别字符串，无法识别时静默
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	default:
		return LogLevelSilent
	}
}

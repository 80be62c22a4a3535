package db

import (
	"fmt"
)

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	SSLMode        string `mapstructure:"sslmode"`
	TimeZone       string `mapstructure:"timezone"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	PoolConfig     `mapstructure:"pool"`
	Level          string `mapstructure:"level"`
}

func (c *PostgresConfig) Driver() Driver {
	return DriverPostgres
}

func (c *PostgresConfig) DSN() string {
	host, port, user := c.Host, c.Port, c.User
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 5432
	}
	if user == "" {
		user = "postgres"
	}
	sslmode, tz, timeout := c.SSLMode, c.TimeZone, c.ConnectTimeout
	if sslmode == "" {
		sslmode = "disable"
	}
	if tz == "" {
		tz = "America/Caracas"
	}
	if timeout == 0 {
		timeout = 10
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s connect_timeout=%d",
		host, port, user, c.Password, c.Database, sslmode, tz, timeout)
}

func (c *PostgresConfig) Pool() *PoolConfig {
	return c.PoolConfig.withDefaults(10, 100)
}

func (c *PostgresConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}

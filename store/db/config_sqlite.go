package db

import (
	"fmt"
)

// SQLiteConfig SQLite 配置
type SQLiteConfig struct {
	FilePath    string `mapstructure:"file_path"`
	JournalMode string `mapstructure:"journal_mode"`
	BusyTimeout int    `mapstructure:"busy_timeout"`
	PoolConfig  `mapstructure:"pool"`
	Level       string `mapstructure:"level"`
}

func (c *SQLiteConfig) Driver() Driver {
	return DriverSQLite
}

// DSN 生成 SQLite DSN，默认 WAL 模式与 5s 忙等待
func (c *SQLiteConfig) DSN() string {
	path := c.FilePath
	if path == "" {
		path = "./divina.db"
	}
	mode := c.JournalMode
	if mode == "" {
		mode = "WAL"
	}
	busy := c.BusyTimeout
	if busy == 0 {
		busy = 5000
	}
	return fmt.Sprintf("file:%s?_journal_mode=%s&_busy_timeout=%d", path, mode, busy)
}

// Pool SQLite 单文件，使用单连接
func (c *SQLiteConfig) Pool() *PoolConfig {
	return c.PoolConfig.withDefaults(1, 1)
}

func (c *SQLiteConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}

package log

import (
	"github.com/kochabx/divina/log/writer"
)

// FileConfig 日志文件配置
type FileConfig struct {
	Filepath   string            `mapstructure:"filepath"`
	Filename   string            `mapstructure:"filename"`
	FileExt    string            `mapstructure:"file_ext"`
	RotateMode writer.RotateMode `mapstructure:"rotate_mode"`
	// 按时间轮转，单位小时
	MaxAgeHours  int `mapstructure:"max_age_hours"`
	RotationTime int `mapstructure:"rotation_time"`
	// 按大小轮转
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

func (c *FileConfig) applyDefaults() {
	if c.Filepath == "" {
		c.Filepath = "log"
	}
	if c.Filename == "" {
		c.Filename = "divina"
	}
	if c.FileExt == "" {
		c.FileExt = "log"
	}
	if c.MaxAgeHours <= 0 {
		c.MaxAgeHours = 24
	}
	if c.RotationTime <= 0 {
		c.RotationTime = 1
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 30
	}
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Mode:     c.RotateMode,
		Filepath: c.Filepath,
		Filename: c.Filename,
		FileExt:  c.FileExt,
		Time: writer.TimeRotateConfig{
			MaxAge:       c.MaxAgeHours,
			RotationTime: c.RotationTime,
		},
		Size: writer.SizeRotateConfig{
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		},
	}
}

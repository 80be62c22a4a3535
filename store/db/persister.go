package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRecord 会话持久化表，每个键一行
type SessionRecord struct {
	Key       string `gorm:"column:session_key;primaryKey;size:128"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName 表名
func (SessionRecord) TableName() string {
	return "divina_sessions"
}

// Persister 将会话保存在 SQL 表中
type Persister struct {
	db *gorm.DB
}

// NewPersister 创建 Persister 并迁移会话表
func NewPersister(ctx context.Context, c *Client) (*Persister, error) {
	db := c.DB().WithContext(ctx)
	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		return nil, err
	}
	return &Persister{db: c.DB()}, nil
}

// Load 读取会话，记录不存在时返回 nil, nil
func (p *Persister) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var rec SessionRecord
	err := p.db.WithContext(ctx).Where("session_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

// Save 写入会话，已存在时覆盖
func (p *Persister) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	rec := SessionRecord{Key: key, Data: data, UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}

// Delete 删除会话
func (p *Persister) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.db.WithContext(ctx).Where("session_key = ?", key).Delete(&SessionRecord{}).Error
}

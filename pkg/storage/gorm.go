package storage

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/smh/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted slot.
type Entry struct {
	Key       string    `gorm:"column:slot;primaryKey;type:varchar(191)"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "kv_entries" }

type gormKV struct {
	db *gorm.DB
}

// NewGorm migrates the kv_entries table and returns a KV backed by it.
func NewGorm(db *gorm.DB) (KV, error) {
	if db == nil {
		return nil, errors.New("storage database handle is required")
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &gormKV{db: db}, nil
}

func (g *gormKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var entry Entry
	err := g.db.WithContext(ctx).Where("slot = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

func (g *gormKV) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil && db.IsDuplicateKeyErr(err) {
		// lost an insert race with another writer; the row exists now
		return g.db.WithContext(ctx).Model(&Entry{}).Where("slot = ?", key).
			Updates(map[string]any{"value": value, "updated_at": entry.UpdatedAt}).Error
	}
	return err
}

func (g *gormKV) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return g.db.WithContext(ctx).Where("slot = ?", key).Delete(&Entry{}).Error
}

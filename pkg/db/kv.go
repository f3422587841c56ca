package db

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KV is a key-value store over the kv_entries table.
type KV struct {
	db *gorm.DB
}

func NewKV(gdb *gorm.DB) *KV {
	return &KV{db: gdb}
}

var errNoDatabase = errors.New("database is not initialized")

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if k == nil || k.db == nil {
		return nil, false, errNoDatabase
	}
	var entry KVEntry
	err := k.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	if k == nil || k.db == nil {
		return errNoDatabase
	}
	entry := KVEntry{Key: key, Value: datatypes.JSON(value)}
	return k.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Keys lists stored keys starting with prefix, in key order.
func (k *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	if k == nil || k.db == nil {
		return nil, errNoDatabase
	}
	var keys []string
	err := k.db.WithContext(ctx).
		Model(&KVEntry{}).
		Where("entry_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("entry_key ASC").
		Pluck("entry_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

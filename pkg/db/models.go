package db

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry stores one serialized value per key. Each user's vocabulary list
// lives in a single row.
type KVEntry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;size:191"`
	Value     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

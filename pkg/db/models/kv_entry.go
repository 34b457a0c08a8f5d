package models

import "time"

// KVEntry persists one named collection (or cell) as a single JSON value.
// Collections are replaced wholesale on every write; there is no row-level
// merging.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName keeps the table name stable across dialects.
func (KVEntry) TableName() string {
	return "kv_entries"
}

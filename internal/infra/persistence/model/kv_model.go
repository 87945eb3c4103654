package model

import (
	"time"
)

// KVEntryModel is the GORM-specific struct for the 'kv_entries' table.
// It holds one subscriber record (or any other keyed document) as raw JSON bytes.
type KVEntryModel struct {
	Key       string `gorm:"column:entry_key;type:varchar(255);primaryKey"`
	Value     []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (KVEntryModel) TableName() string {
	return "kv_entries"
}

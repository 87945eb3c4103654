package model

import (
	"time"
)

// MailboxEntryModel is the GORM-specific struct for the 'mailbox_entries' table.
// Rows sharing a QueueKey form a FIFO ordered by ID.
type MailboxEntryModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	QueueKey  string    `gorm:"type:varchar(255);not null;index:idx_mailbox_queue,priority:1"`
	Value     []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MailboxEntryModel) TableName() string {
	return "mailbox_entries"
}

package db

import (
	"time"

	"gorm.io/datatypes"
)

// ActionLog records every action relayed to the backend for a table.
type ActionLog struct {
	ID        uint           `gorm:"primaryKey"`
	TableID   string         `gorm:"size:64;index;not null"`
	UserID    string         `gorm:"size:64;index;not null"`
	Action    string         `gorm:"size:16;not null"`
	Amount    int64          `gorm:"not null;default:0"`
	Accepted  bool           `gorm:"not null;default:false"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

// JoinAttempt keeps the latest join outcome per user and table.
type JoinAttempt struct {
	TableID   string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"primaryKey;size:64"`
	Success   bool      `gorm:"not null"`
	Message   string    `gorm:"size:280"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// MemberPoint is one entry of a member's point ledger. The balance is the sum of entries.
type MemberPoint struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	MemberID  uint           `json:"member_id" gorm:"index;not null"`
	Point     int            `json:"point" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

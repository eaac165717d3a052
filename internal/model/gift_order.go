package model

import (
	"time"

	"gorm.io/gorm"
)

// GiftOrder records a completed order of an option by a member.
// It is immutable after creation apart from soft deletion.
type GiftOrder struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	MemberID  uint           `json:"member_id" gorm:"index;not null"`
	OptionID  uint           `json:"option_id" gorm:"index;not null"`
	Quantity  int            `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Message   string         `json:"message" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Member roles
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// Member represents a registered member stored in the database
type Member struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex:idx_members_email,where:deleted_at IS NULL;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:MEMBER"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsOAuthMember reports whether the member was created through a third-party login
func (m *Member) IsOAuthMember(oauthType string) bool {
	return m.Password == oauthType
}

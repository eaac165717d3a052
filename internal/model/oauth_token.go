package model

import (
	"time"

	"gorm.io/gorm"
)

// OAuth providers
const (
	OauthTypeKakao = "KAKAO"
)

// OauthToken stores the third-party tokens of a member
type OauthToken struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	MemberID              uint           `json:"member_id" gorm:"uniqueIndex:idx_oauth_member_type,where:deleted_at IS NULL;not null"`
	OauthType             string         `json:"oauth_type" gorm:"type:varchar(20);uniqueIndex:idx_oauth_member_type,where:deleted_at IS NULL;not null"`
	AccessToken           string         `json:"-" gorm:"type:varchar(512);not null"`
	AccessTokenExpiresAt  time.Time      `json:"access_token_expires_at"`
	RefreshToken          string         `json:"-" gorm:"type:varchar(512);not null"`
	RefreshTokenExpiresAt time.Time      `json:"refresh_token_expires_at"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`
}

// CanUseAccessToken reports whether the access token is still valid at now
func (t *OauthToken) CanUseAccessToken(now time.Time) bool {
	return now.Before(t.AccessTokenExpiresAt)
}

// CanUseRefreshToken reports whether the refresh token is still valid at now
func (t *OauthToken) CanUseRefreshToken(now time.Time) bool {
	return now.Before(t.RefreshTokenExpiresAt)
}

package model

import (
	"testing"
	"time"
)

func TestOauthToken_Usability(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := &OauthToken{
		AccessTokenExpiresAt:  now.Add(time.Minute),
		RefreshTokenExpiresAt: now.Add(time.Hour),
	}

	if !token.CanUseAccessToken(now) {
		t.Error("expected access token to be usable before expiry")
	}
	if token.CanUseAccessToken(now.Add(time.Minute)) {
		t.Error("expected access token to be unusable at expiry")
	}
	if !token.CanUseRefreshToken(now.Add(30 * time.Minute)) {
		t.Error("expected refresh token to be usable before expiry")
	}
	if token.CanUseRefreshToken(now.Add(2 * time.Hour)) {
		t.Error("expected refresh token to be unusable after expiry")
	}
}

func TestMember_IsOAuthMember(t *testing.T) {
	kakao := &Member{Password: OauthTypeKakao}
	local := &Member{Password: "$2a$10$hash"}

	if !kakao.IsOAuthMember(OauthTypeKakao) {
		t.Error("expected kakao member to be recognised")
	}
	if local.IsOAuthMember(OauthTypeKakao) {
		t.Error("expected local member not to be an oauth member")
	}
}

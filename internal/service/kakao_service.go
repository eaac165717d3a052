package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"
	"gift-service/internal/model"
	"gift-service/internal/port"
	"gift-service/pkg/kakao"

	"go.uber.org/zap"
)

// KakaoAPI is the part of the Kakao client the service uses
type KakaoAPI interface {
	ExchangeCode(ctx context.Context, code string) (*kakao.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*kakao.TokenResponse, error)
	GetProfile(ctx context.Context, accessToken string) (*kakao.Profile, error)
	SendMemo(ctx context.Context, accessToken, text, webURL string) error
}

// KakaoService logs members in through Kakao and sends them order messages
type KakaoService struct {
	store  port.Store
	client KakaoAPI
	tokens TokenIssuer
	webURL string
	now    func() time.Time
	logger *zap.Logger
}

func NewKakaoService(store port.Store, client KakaoAPI, tokens TokenIssuer, webURL string, logger *zap.Logger) *KakaoService {
	return &KakaoService{
		store:  store,
		client: client,
		tokens: tokens,
		webURL: webURL,
		now:    time.Now,
		logger: logger,
	}
}

// LoginWithCode exchanges the authorization code, finds or creates the member
// for the Kakao account, stores its Kakao tokens and returns a service token.
func (s *KakaoService) LoginWithCode(ctx context.Context, code string) (string, error) {
	tokenResp, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn("Kakao code exchange failed", zap.Error(err))
		return "", apperror.Unauthorized("kakao authentication failed")
	}

	profile, err := s.client.GetProfile(ctx, tokenResp.AccessToken)
	if err != nil {
		s.logger.Warn("Kakao profile lookup failed", zap.Error(err))
		return "", apperror.Unauthorized("kakao authentication failed")
	}
	if profile.Email() == "" {
		return "", apperror.BadRequest("kakao account has no email")
	}

	var memberID uint
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx port.Repositories) error {
		member, err := tx.Members().FindByEmail(ctx, profile.Email())
		switch {
		case apperror.IsKind(err, apperror.KindNotFound):
			member = &model.Member{
				Name:     profile.Name(),
				Email:    profile.Email(),
				Password: model.OauthTypeKakao,
				Role:     model.RoleMember,
			}
			if err := tx.Members().Create(ctx, member); err != nil {
				return err
			}
			s.logger.Info("Member registered through kakao", zap.Uint("member_id", member.ID))
		case err != nil:
			return err
		case !member.IsOAuthMember(model.OauthTypeKakao):
			return apperror.Conflict("email already registered with password login")
		}

		memberID = member.ID
		return tx.OauthTokens().Save(ctx, s.newToken(member.ID, tokenResp))
	})
	if err != nil {
		return "", internal("kakao login failed", err)
	}

	token, err := s.tokens.GenerateToken(memberID)
	if err != nil {
		return "", apperror.Internal("token error", err)
	}
	s.logger.Info("Member logged in through kakao", zap.Uint("member_id", memberID))
	return token, nil
}

func (s *KakaoService) Name() string {
	return "kakao"
}

// NotifyOrder sends the order to the member's own Kakao chat, refreshing the
// access token first when it has expired.
func (s *KakaoService) NotifyOrder(ctx context.Context, placed port.OrderPlaced) error {
	token, err := s.store.OauthTokens().FindByMemberIDAndType(ctx, placed.MemberID, model.OauthTypeKakao)
	if err != nil {
		return err
	}

	now := s.now()
	if !token.CanUseRefreshToken(now) {
		return apperror.Unauthorized("kakao token has expired, login again")
	}
	if !token.CanUseAccessToken(now) {
		refreshed, err := s.client.RefreshToken(ctx, token.RefreshToken)
		if err != nil {
			return fmt.Errorf("refresh kakao token: %w", err)
		}
		s.applyRefresh(token, refreshed)
		if err := s.store.OauthTokens().Save(ctx, token); err != nil {
			return err
		}
	}

	return s.client.SendMemo(ctx, token.AccessToken, orderMessage(placed.Order), s.webURL)
}

func (s *KakaoService) newToken(memberID uint, resp *kakao.TokenResponse) *model.OauthToken {
	now := s.now()
	return &model.OauthToken{
		MemberID:              memberID,
		OauthType:             model.OauthTypeKakao,
		AccessToken:           resp.AccessToken,
		AccessTokenExpiresAt:  now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		RefreshToken:          resp.RefreshToken,
		RefreshTokenExpiresAt: now.Add(time.Duration(resp.RefreshTokenExpiresIn) * time.Second),
	}
}

// applyRefresh keeps the stored refresh token unless Kakao rotated it
func (s *KakaoService) applyRefresh(token *model.OauthToken, resp *kakao.TokenResponse) {
	now := s.now()
	token.AccessToken = resp.AccessToken
	token.AccessTokenExpiresAt = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	if resp.RefreshToken != "" {
		token.RefreshToken = resp.RefreshToken
		token.RefreshTokenExpiresAt = now.Add(time.Duration(resp.RefreshTokenExpiresIn) * time.Second)
	}
}

func orderMessage(order *dto.OrderResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gift order #%d\n", order.ID)
	if order.Product.Name != "" {
		fmt.Fprintf(&b, "Product: %s\n", order.Product.Name)
	}
	if order.Option.Name != "" {
		fmt.Fprintf(&b, "Option: %s\n", order.Option.Name)
	}
	fmt.Fprintf(&b, "Quantity: %d\n", order.Quantity)
	fmt.Fprintf(&b, "Message: %s", order.Message)
	return b.String()
}

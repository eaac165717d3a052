package service

import (
	"context"
	"strings"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"
	"gift-service/internal/model"
	"gift-service/internal/port"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidLogin = "invalid login information"

// AuthService registers members and logs them in with email and password
type AuthService struct {
	store  port.Store
	tokens TokenIssuer
	logger *zap.Logger
}

func NewAuthService(store port.Store, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, logger: logger}
}

// Register creates a member and returns a token for it
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (string, error) {
	email := strings.TrimSpace(req.Email)

	exists, err := s.store.Members().ExistsByEmail(ctx, email)
	if err != nil {
		return "", internal("registration failed", err)
	}
	if exists {
		return "", apperror.Conflict("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal("registration failed", err)
	}

	member := &model.Member{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.RoleMember,
	}
	if err := s.store.Members().Create(ctx, member); err != nil {
		if apperror.IsKind(err, apperror.KindConflict) {
			return "", apperror.Conflict("email already registered")
		}
		return "", internal("registration failed", err)
	}

	s.logger.Info("Member registered", zap.Uint("member_id", member.ID), zap.String("email", member.Email))
	return s.issue(member.ID)
}

// Login checks the password of the member with the given email and returns a token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	member, err := s.store.Members().FindByEmail(ctx, strings.TrimSpace(req.Email))
	if apperror.IsKind(err, apperror.KindNotFound) {
		return "", apperror.Unauthorized(msgInvalidLogin)
	}
	if err != nil {
		return "", internal("login failed", err)
	}

	if member.IsOAuthMember(model.OauthTypeKakao) {
		s.logger.Info("Password login attempted for oauth member", zap.Uint("member_id", member.ID))
		return "", apperror.Unauthorized(msgInvalidLogin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		return "", apperror.Unauthorized(msgInvalidLogin)
	}

	s.logger.Info("Member logged in", zap.Uint("member_id", member.ID))
	return s.issue(member.ID)
}

func (s *AuthService) issue(memberID uint) (string, error) {
	token, err := s.tokens.GenerateToken(memberID)
	if err != nil {
		return "", apperror.Internal("token error", err)
	}
	return token, nil
}

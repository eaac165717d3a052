package handler

import (
	"context"
	"net/http"

	"gift-service/internal/dto"
	"gift-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthUseCase interface {
	Register(ctx context.Context, req dto.RegisterRequest) (string, error)
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
}

type KakaoLoginUseCase interface {
	LoginWithCode(ctx context.Context, code string) (string, error)
}

// AuthHandler serves the allow-listed member endpoints
type AuthHandler struct {
	auth  AuthUseCase
	kakao KakaoLoginUseCase
}

func NewAuthHandler(auth AuthUseCase, kakao KakaoLoginUseCase) *AuthHandler {
	return &AuthHandler{auth: auth, kakao: kakao}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	logger.FromContext(c).Info("Member registered", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, dto.AuthResponse{Token: token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AuthResponse{Token: token})
}

// KakaoLogin accepts the authorization code in the body or as the redirect query
func (h *AuthHandler) KakaoLogin(c echo.Context) error {
	var req dto.KakaoLoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Code == "" {
		req.Code = c.QueryParam("code")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.kakao.LoginWithCode(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AuthResponse{Token: token})
}

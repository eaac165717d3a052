package handler

import (
	"context"
	"net/http"

	"gift-service/internal/dto"
	"gift-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MemberUseCase interface {
	DeleteMember(ctx context.Context, memberID uint) error
}

type PointUseCase interface {
	AddPoint(ctx context.Context, memberID uint, point int) (int, error)
	GetPoint(ctx context.Context, memberID uint) (int, error)
}

// MemberHandler serves the caller's own account and point balance
type MemberHandler struct {
	members MemberUseCase
	points  PointUseCase
}

func NewMemberHandler(members MemberUseCase, points PointUseCase) *MemberHandler {
	return &MemberHandler{members: members, points: points}
}

func (h *MemberHandler) DeleteMember(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}
	if err := h.members.DeleteMember(c.Request().Context(), memberID); err != nil {
		return err
	}
	logger.FromContext(c).Info("Member deleted", zap.Uint("member_id", memberID))
	return c.NoContent(http.StatusNoContent)
}

func (h *MemberHandler) AddPoint(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}

	var req dto.PointRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	balance, err := h.points.AddPoint(c.Request().Context(), memberID, req.Point)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.PointResponse{Point: balance})
}

func (h *MemberHandler) GetPoint(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}

	balance, err := h.points.GetPoint(c.Request().Context(), memberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.PointResponse{Point: balance})
}

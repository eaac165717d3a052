package service

import (
	"context"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
	"gift-service/internal/port"

	"go.uber.org/zap"
)

// PointService keeps the point ledger of members
type PointService struct {
	store  port.Store
	logger *zap.Logger
}

func NewPointService(store port.Store, logger *zap.Logger) *PointService {
	return &PointService{store: store, logger: logger}
}

// AddPoint records a positive deposit and returns the new balance
func (s *PointService) AddPoint(ctx context.Context, memberID uint, point int) (int, error) {
	if point <= 0 {
		return 0, apperror.Validation("point must be positive")
	}
	if _, err := s.store.Members().FindByID(ctx, memberID); err != nil {
		return 0, internal("failed to add point", err)
	}

	if err := s.store.Points().Create(ctx, &model.MemberPoint{MemberID: memberID, Point: point}); err != nil {
		return 0, internal("failed to add point", err)
	}

	balance, err := s.store.Points().SumByMemberID(ctx, memberID)
	if err != nil {
		return 0, internal("failed to read point", err)
	}
	s.logger.Info("Point added", zap.Uint("member_id", memberID), zap.Int("point", point), zap.Int("balance", balance))
	return balance, nil
}

// GetPoint returns the member's balance
func (s *PointService) GetPoint(ctx context.Context, memberID uint) (int, error) {
	balance, err := s.store.Points().SumByMemberID(ctx, memberID)
	if err != nil {
		return 0, internal("failed to read point", err)
	}
	return balance, nil
}

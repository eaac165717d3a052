package service

import (
	"context"

	"gift-service/internal/model"
	"gift-service/internal/port"

	"go.uber.org/zap"
)

// MemberService manages member accounts
type MemberService struct {
	store  port.Store
	cache  port.OrderCache
	logger *zap.Logger
}

// NewMemberService creates the service. cache may be nil.
func NewMemberService(store port.Store, cache port.OrderCache, logger *zap.Logger) *MemberService {
	return &MemberService{store: store, cache: cache, logger: logger}
}

// DeleteMember removes the member and everything it owns in one transaction:
// oauth tokens, orders, wishlist, points and finally the member itself.
func (s *MemberService) DeleteMember(ctx context.Context, memberID uint) error {
	var orders []model.GiftOrder
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx port.Repositories) error {
		if _, err := tx.Members().FindByID(ctx, memberID); err != nil {
			return err
		}
		if err := tx.OauthTokens().DeleteAllByMemberID(ctx, memberID); err != nil {
			return err
		}
		var err error
		if orders, err = tx.Orders().DeleteAllByMemberID(ctx, memberID); err != nil {
			return err
		}
		if err := tx.Wishes().DeleteAllByMemberID(ctx, memberID); err != nil {
			return err
		}
		if err := tx.Points().DeleteAllByMemberID(ctx, memberID); err != nil {
			return err
		}
		return tx.Members().Delete(ctx, memberID)
	})
	if err != nil {
		return internal("failed to delete member", err)
	}

	evictOrders(ctx, s.cache, s.logger, orders)
	s.logger.Info("Member deleted", zap.Uint("member_id", memberID))
	return nil
}

package service

import (
	"context"
	"errors"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
	"gift-service/internal/port"

	"go.uber.org/zap"
)

// TokenIssuer issues member tokens
type TokenIssuer interface {
	GenerateToken(memberID uint) (string, error)
}

// internal wraps err as an unexpected failure unless it already carries a kind
func internal(message string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(message, err)
}

// evictOrders drops deleted orders from the read cache. Failures are logged
// and left to the cache TTL.
func evictOrders(ctx context.Context, cache port.OrderCache, logger *zap.Logger, orders []model.GiftOrder) {
	if cache == nil {
		return
	}
	for _, o := range orders {
		if err := cache.Delete(ctx, o.MemberID, o.ID); err != nil {
			logger.Warn("Order cache eviction failed",
				zap.Uint("order_id", o.ID),
				zap.Uint("member_id", o.MemberID),
				zap.Error(err))
		}
	}
}

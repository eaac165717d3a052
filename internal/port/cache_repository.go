package port

import (
	"context"

	"gift-service/internal/dto"
)

// OrderCache holds rendered orders for repeated reads
type OrderCache interface {
	// Get returns (nil, nil) on a miss
	Get(ctx context.Context, memberID, orderID uint) (*dto.OrderResult, error)
	Set(ctx context.Context, memberID uint, order *dto.OrderResult) error
	Delete(ctx context.Context, memberID, orderID uint) error
}

package port

import (
	"context"

	"gift-service/internal/dto"
)

// OrderPlaced is handed to notifiers after an order commits
type OrderPlaced struct {
	MemberID uint
	Order    *dto.OrderResult
}

// OrderNotifier delivers a best-effort notification about a placed order
type OrderNotifier interface {
	Name() string
	NotifyOrder(ctx context.Context, event OrderPlaced) error
}

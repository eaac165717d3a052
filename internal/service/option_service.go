package service

import (
	"context"
	"fmt"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"
	"gift-service/internal/model"
	"gift-service/internal/port"

	"go.uber.org/zap"
)

// OptionService reads and removes product options
type OptionService struct {
	store  port.Store
	cache  port.OrderCache
	logger *zap.Logger
}

// NewOptionService creates the service. cache may be nil.
func NewOptionService(store port.Store, cache port.OrderCache, logger *zap.Logger) *OptionService {
	return &OptionService{store: store, cache: cache, logger: logger}
}

// GetOptions returns the active options of a product
func (s *OptionService) GetOptions(ctx context.Context, productID uint) ([]dto.OptionResult, error) {
	options, err := s.store.Options().FindAllByProductID(ctx, productID)
	if err != nil {
		return nil, internal("failed to load options", err)
	}

	results := make([]dto.OptionResult, 0, len(options))
	for i := range options {
		results = append(results, dto.NewOptionResult(&options[i]))
	}
	return results, nil
}

// DeleteOption soft-deletes the option and its orders. A missing or already
// deleted option is treated as deleted.
func (s *OptionService) DeleteOption(ctx context.Context, productID, optionID uint) error {
	var deleted bool
	var orders []model.GiftOrder
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx port.Repositories) error {
		// Locking serialises the delete with orders in flight on the same option
		option, err := tx.Options().FindByIDForUpdate(ctx, optionID)
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if option.ProductID != productID {
			return apperror.BadRequest(fmt.Sprintf("option %d does not belong to product %d", optionID, productID))
		}

		orders, err = tx.Orders().DeleteAllByOptionID(ctx, optionID)
		if err != nil {
			return err
		}
		if err := tx.Options().Delete(ctx, optionID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return internal("failed to delete option", err)
	}

	if deleted {
		evictOrders(ctx, s.cache, s.logger, orders)
		s.logger.Info("Option deleted",
			zap.Uint("product_id", productID),
			zap.Uint("option_id", optionID),
			zap.Int("orders", len(orders)))
	}
	return nil
}

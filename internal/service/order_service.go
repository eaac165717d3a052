package service

import (
	"context"
	"fmt"
	"strings"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"
	"gift-service/internal/model"
	"gift-service/internal/port"
	"gift-service/prometheus"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// OrderQueue accepts committed orders for notification without blocking
type OrderQueue interface {
	Enqueue(event port.OrderPlaced) bool
}

// OrderService places and reads gift orders
type OrderService struct {
	store  port.Store
	cache  port.OrderCache
	queue  OrderQueue
	logger *zap.Logger
}

// NewOrderService creates an order service. cache and queue may be nil.
func NewOrderService(store port.Store, cache port.OrderCache, queue OrderQueue, logger *zap.Logger) *OrderService {
	return &OrderService{store: store, cache: cache, queue: queue, logger: logger}
}

// OrderOption decrements the option and records the order in one transaction.
// Notifications are queued only after the commit.
func (s *OrderService) OrderOption(ctx context.Context, memberID uint, req dto.OrderRequest) (*dto.OrderResult, error) {
	done := prometheus.TrackOrder()

	if req.Quantity < 1 {
		done(apperror.KindValidation.String())
		return nil, apperror.Validation("quantity must be at least 1")
	}

	var result *dto.OrderResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx port.Repositories) error {
		if _, err := tx.Members().FindByID(ctx, memberID); err != nil {
			return err
		}

		option, err := tx.Options().SubtractQuantity(ctx, req.OptionID, req.Quantity)
		if err != nil {
			return err
		}

		order := &model.GiftOrder{
			MemberID: memberID,
			OptionID: option.ID,
			Quantity: req.Quantity,
			Message:  req.Message,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		if err := tx.Wishes().DeleteAllByMemberIDAndProductID(ctx, memberID, option.ProductID); err != nil {
			return err
		}

		product, err := s.findProduct(ctx, tx, option.ProductID)
		if err != nil {
			return err
		}
		result = dto.NewOrderResult(order, option, product)
		return nil
	})
	if err != nil {
		err = internal("failed to place order", err)
		done(apperror.KindOf(err).String())
		s.logger.Warn("Order rejected",
			zap.Uint("member_id", memberID),
			zap.Uint("option_id", req.OptionID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err))
		return nil, err
	}
	done("success")

	s.logger.Info("Order placed",
		zap.Uint("order_id", result.ID),
		zap.Uint("member_id", memberID),
		zap.Uint("option_id", req.OptionID),
		zap.Int("quantity", req.Quantity))

	s.cacheOrder(ctx, memberID, result)
	if s.queue != nil {
		s.queue.Enqueue(port.OrderPlaced{MemberID: memberID, Order: result})
	}
	return result, nil
}

// GetOrder returns an order of the member. Orders of other members are reported as missing.
func (s *OrderService) GetOrder(ctx context.Context, memberID, orderID uint) (*dto.OrderResult, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, memberID, orderID)
		if err != nil {
			s.logger.Warn("Order cache read failed", zap.Uint("order_id", orderID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, internal("failed to load order", err)
	}
	if order.MemberID != memberID {
		return nil, apperror.NotFound(fmt.Sprintf("order %d not found", orderID))
	}

	result, err := s.render(ctx, order, map[uint]*model.Option{}, map[uint]*model.Product{})
	if err != nil {
		return nil, err
	}
	s.cacheOrder(ctx, memberID, result)
	return result, nil
}

// GetOrders returns one page of the member's orders, newest first unless asc is requested
func (s *OrderService) GetOrders(ctx context.Context, memberID uint, req dto.OrderPage) ([]dto.OrderResult, error) {
	page, err := normalizePage(req)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.Orders().FindAllByMemberID(ctx, memberID, page)
	if err != nil {
		return nil, internal("failed to load orders", err)
	}

	options := map[uint]*model.Option{}
	products := map[uint]*model.Product{}
	results := make([]dto.OrderResult, 0, len(orders))
	for i := range orders {
		result, err := s.render(ctx, &orders[i], options, products)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// DeleteOrder soft-deletes an order of the member. Deleting a missing order succeeds.
func (s *OrderService) DeleteOrder(ctx context.Context, memberID, orderID uint) error {
	deleted, err := s.store.Orders().DeleteByIDAndMemberID(ctx, orderID, memberID)
	if err != nil {
		return internal("failed to delete order", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, memberID, orderID); err != nil {
			s.logger.Warn("Order cache eviction failed", zap.Uint("order_id", orderID), zap.Error(err))
		}
	}
	if deleted {
		s.logger.Info("Order deleted", zap.Uint("order_id", orderID), zap.Uint("member_id", memberID))
	}
	return nil
}

func normalizePage(req dto.OrderPage) (port.Page, error) {
	page := port.Page{Page: req.Page, Size: req.Size, Direction: strings.ToLower(req.Direction)}
	if page.Page < 0 {
		return page, apperror.Validation("page must not be negative")
	}
	switch {
	case page.Size == 0:
		page.Size = defaultPageSize
	case page.Size < 0 || page.Size > maxPageSize:
		return page, apperror.Validation(fmt.Sprintf("size must be between 1 and %d", maxPageSize))
	}
	switch page.Direction {
	case "":
		page.Direction = port.DirectionDesc
	case port.DirectionAsc, port.DirectionDesc:
	default:
		return page, apperror.Validation("direction must be asc or desc")
	}
	return page, nil
}

// render builds the order representation. Options and products deleted after the
// order was placed are summarised by id only.
func (s *OrderService) render(ctx context.Context, order *model.GiftOrder, options map[uint]*model.Option, products map[uint]*model.Product) (*dto.OrderResult, error) {
	option, ok := options[order.OptionID]
	if !ok {
		found, err := s.store.Options().FindByID(ctx, order.OptionID)
		switch {
		case apperror.IsKind(err, apperror.KindNotFound):
			found = &model.Option{ID: order.OptionID}
		case err != nil:
			return nil, internal("failed to load option", err)
		}
		option = found
		options[order.OptionID] = option
	}

	product, ok := products[option.ProductID]
	if !ok {
		found, err := s.findProduct(ctx, s.store, option.ProductID)
		if err != nil {
			return nil, internal("failed to load product", err)
		}
		product = found
		products[option.ProductID] = product
	}
	return dto.NewOrderResult(order, option, product), nil
}

// findProduct returns nil without error when the product no longer exists
func (s *OrderService) findProduct(ctx context.Context, repos port.Repositories, productID uint) (*model.Product, error) {
	if productID == 0 {
		return nil, nil
	}
	product, err := repos.Products().FindByID(ctx, productID)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, nil
	}
	return product, err
}

func (s *OrderService) cacheOrder(ctx context.Context, memberID uint, result *dto.OrderResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, memberID, result); err != nil {
		s.logger.Warn("Order cache write failed", zap.Uint("order_id", result.ID), zap.Error(err))
	}
}

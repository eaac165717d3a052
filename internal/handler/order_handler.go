package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"

	"github.com/labstack/echo/v4"
)

// OrderUseCase is the order API the handler needs
type OrderUseCase interface {
	OrderOption(ctx context.Context, memberID uint, req dto.OrderRequest) (*dto.OrderResult, error)
	GetOrder(ctx context.Context, memberID, orderID uint) (*dto.OrderResult, error)
	GetOrders(ctx context.Context, memberID uint, page dto.OrderPage) ([]dto.OrderResult, error)
	DeleteOrder(ctx context.Context, memberID, orderID uint) error
}

type OrderHandler struct {
	orders  OrderUseCase
	timeout time.Duration
}

// NewOrderHandler bounds every order placement by timeout. Zero disables the bound.
func NewOrderHandler(orders OrderUseCase, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, timeout: timeout}
}

// CreateOrder places a gift order for the caller
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}

	var req dto.OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.orders.OrderOption(ctx, memberID, req)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/orders/%d", result.ID))
	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.orders.GetOrder(c.Request().Context(), memberID, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}

	var page dto.OrderPage
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &page); err != nil {
		return apperror.BadRequest("invalid paging parameters")
	}
	if err := c.Validate(&page); err != nil {
		return err
	}

	results, err := h.orders.GetOrders(c.Request().Context(), memberID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	memberID, err := currentMember(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.orders.DeleteOrder(c.Request().Context(), memberID, orderID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

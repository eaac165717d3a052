package dto

import (
	"time"

	"gift-service/internal/model"
)

// OrderRequest is the body of an order placement
type OrderRequest struct {
	OptionID uint   `json:"option_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Message  string `json:"message" validate:"required,notblank"`
}

// ProductSummary is the product part of an order result
type ProductSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// OptionSummary is the option part of an order result
type OptionSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// OrderResult is the representation of a placed order
type OrderResult struct {
	ID        uint           `json:"id"`
	Product   ProductSummary `json:"product"`
	Option    OptionSummary  `json:"option"`
	Quantity  int            `json:"quantity"`
	OrderedAt time.Time      `json:"ordered_at"`
	Message   string         `json:"message"`
}

// NewOrderResult builds the result from the persisted order and its option snapshot
func NewOrderResult(order *model.GiftOrder, option *model.Option, product *model.Product) *OrderResult {
	result := &OrderResult{
		ID:        order.ID,
		Option:    OptionSummary{ID: option.ID, Name: option.Name},
		Quantity:  order.Quantity,
		OrderedAt: order.CreatedAt,
		Message:   order.Message,
	}
	if product != nil {
		result.Product = ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price}
	} else {
		result.Product = ProductSummary{ID: option.ProductID}
	}
	return result
}

// OrderPage selects a page of a member's orders
type OrderPage struct {
	Page      int    `query:"page" validate:"min=0"`
	Size      int    `query:"size" validate:"min=0,max=100"`
	Direction string `query:"direction" validate:"omitempty,oneof=asc desc ASC DESC"`
}

package dto

import "gift-service/internal/model"

// OptionResult is the public view of a product option
type OptionResult struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func NewOptionResult(option *model.Option) OptionResult {
	return OptionResult{ID: option.ID, Name: option.Name, Quantity: option.Quantity}
}

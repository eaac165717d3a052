package handler

import (
	"context"
	"net/http"

	"gift-service/internal/dto"

	"github.com/labstack/echo/v4"
)

type OptionUseCase interface {
	GetOptions(ctx context.Context, productID uint) ([]dto.OptionResult, error)
	DeleteOption(ctx context.Context, productID, optionID uint) error
}

type OptionHandler struct {
	options OptionUseCase
}

func NewOptionHandler(options OptionUseCase) *OptionHandler {
	return &OptionHandler{options: options}
}

func (h *OptionHandler) GetOptions(c echo.Context) error {
	productID, err := idParam(c, "productId")
	if err != nil {
		return err
	}

	options, err := h.options.GetOptions(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}

func (h *OptionHandler) DeleteOption(c echo.Context) error {
	productID, err := idParam(c, "productId")
	if err != nil {
		return err
	}
	optionID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.options.DeleteOption(c.Request().Context(), productID, optionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

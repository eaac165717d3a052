package handler

import (
	"errors"
	"fmt"
	"net/http"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"
	"gift-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler writes every failure as {status, message}
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var appErr *apperror.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.HTTPStatus()
		if appErr.Kind != apperror.KindInternal {
			message = appErr.Message
		}
		if appErr.Kind == apperror.KindBusy {
			c.Response().Header().Set("Retry-After", "1")
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c).Error("Request failed", zap.Int("status", status), zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, dto.ErrorResponse{Status: status, Message: message})
	}
	if writeErr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}


package middleware

import (
	"gift-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware propagates the caller's request id or assigns a new one
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(logger.RequestIDKey, requestID)
		c.Response().Header().Set(logger.RequestIDKey, requestID)
		return next(c)
	}
}

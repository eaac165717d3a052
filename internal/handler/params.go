package handler

import (
	"strconv"

	"gift-service/internal/apperror"
	"gift-service/internal/middleware"

	"github.com/labstack/echo/v4"
)

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("invalid " + name)
	}
	return uint(id), nil
}

// currentMember returns the member the gate authenticated
func currentMember(c echo.Context) (uint, error) {
	id, ok := middleware.MemberID(c)
	if !ok {
		return 0, apperror.Unauthorized(middleware.ReasonAuthRequired)
	}
	return id, nil
}

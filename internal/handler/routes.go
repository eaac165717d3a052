package handler

import (
	"gift-service/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Handlers groups every route handler of the service
type Handlers struct {
	Auth    *AuthHandler
	Members *MemberHandler
	Orders  *OrderHandler
	Options *OptionHandler
}

// RegisterRoutes mounts the API. Everything outside the allow-listed member
// endpoints requires an authenticated member.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	members := e.Group("/api/members")
	members.POST("/register", h.Auth.Register)
	members.POST("/login", h.Auth.Login)
	members.POST("/login/kakao", h.Auth.KakaoLogin)
	members.GET("/login/kakao", h.Auth.KakaoLogin)
	members.DELETE("", h.Members.DeleteMember, middleware.RequireMember)

	api := e.Group("/api", middleware.RequireMember)

	orders := api.Group("/orders")
	orders.POST("", h.Orders.CreateOrder)
	orders.GET("", h.Orders.GetOrders)
	orders.GET("/:id", h.Orders.GetOrder)
	orders.DELETE("/:id", h.Orders.DeleteOrder)

	products := api.Group("/products")
	products.GET("/:productId/options", h.Options.GetOptions)
	products.DELETE("/:productId/options/:id", h.Options.DeleteOption)

	points := api.Group("/points")
	points.POST("", h.Members.AddPoint)
	points.GET("", h.Members.GetPoint)
}

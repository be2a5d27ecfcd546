// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"stockroom/internal/delivery/http/middleware"
	"stockroom/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProductHandler *handler.ProductHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	productHandler *handler.ProductHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		productHandler: params.ProductHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	// Session routes require a valid access token
	sessionGroup := e.Group("/auth")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.POST("/refresh", r.authHandler.Refresh)
		sessionGroup.POST("/logout", r.authHandler.Logout)
	}

	// Catalog routes require authentication
	productGroup := e.Group("/products")
	productGroup.Use(r.authMiddleware.Authenticate)
	{
		productGroup.POST("", r.productHandler.Create)
		productGroup.POST("/bulk", r.productHandler.CreateMany)
		productGroup.GET("", r.productHandler.List)
		productGroup.GET("/:id", r.productHandler.Get)
		productGroup.PATCH("/bulk/update", r.productHandler.UpdateMany)
		productGroup.PATCH("/:id", r.productHandler.Update)
		productGroup.DELETE("/bulk", r.productHandler.DeleteMany)
		productGroup.DELETE("/:id", r.productHandler.Delete)
	}
}

package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aladin-0/RM-Backend/internal/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(errors.Middleware())

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.GET("/menu/:slug", s.handleMenu)
	api.POST("/orders/:slug", s.handleCreateOrder)
	api.POST("/orders/:slug/frontend", s.handleCreateFrontendOrder)

	staffOnly := s.requireStaff()
	api.POST("/captain/orders", s.handleCreateCaptainOrder, staffOnly)
	api.POST("/captain/bills/:bill_id/items", s.handleAddItems, staffOnly)
	api.GET("/kitchen/orders", s.handleKitchenOrders, staffOnly)
	api.POST("/kitchen/items/:item_id/status", s.handleUpdateItemStatus, staffOnly)

	s.echo.GET("/ws/chef/:slug", s.handleChefSocket)
	s.echo.GET("/ws/customer/:bill_id", s.handleCustomerSocket)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}

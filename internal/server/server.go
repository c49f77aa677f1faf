// Package server exposes the order intake, kitchen, and broadcast
// surfaces over HTTP and WebSocket.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Aladin-0/RM-Backend/internal/app"
	"github.com/Aladin-0/RM-Backend/internal/config"
	"github.com/Aladin-0/RM-Backend/internal/domain"
	"github.com/Aladin-0/RM-Backend/internal/registry"
)

type appService interface {
	RestaurantBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
	Menu(ctx context.Context, slug string) ([]domain.MenuEntry, error)
	Bill(ctx context.Context, billID uuid.UUID) (*domain.Bill, error)
	CreateOrder(ctx context.Context, slug string, req app.OrderRequest) (*app.OrderConfirmation, error)
	CreateFrontendOrder(ctx context.Context, slug string, req app.FrontendOrderRequest) (*app.OrderConfirmation, error)
	CreateCaptainOrder(ctx context.Context, identity domain.Identity, req app.OrderRequest) (*app.OrderConfirmation, error)
	AddItems(ctx context.Context, identity domain.Identity, billID uuid.UUID, items []app.OrderItemRequest) (*app.OrderConfirmation, error)
	UpdateItemStatus(ctx context.Context, identity domain.Identity, itemID uuid.UUID, status string) (string, error)
	ActiveKitchenOrders(ctx context.Context, identity domain.Identity) ([]domain.KitchenOrder, error)
}

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// HealthCheck is a named readiness check.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app      appService
	auth     authenticator
	registry *registry.Registry

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, auth authenticator, reg *registry.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		auth:         auth,
		registry:     reg,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

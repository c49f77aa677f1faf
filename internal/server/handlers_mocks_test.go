package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Aladin-0/RM-Backend/internal/app"
	"github.com/Aladin-0/RM-Backend/internal/config"
	"github.com/Aladin-0/RM-Backend/internal/domain"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
	"github.com/Aladin-0/RM-Backend/internal/registry"
)

// --- Mock implementations ---

type mockAppService struct {
	restaurantBySlugFn    func(ctx context.Context, slug string) (*domain.Restaurant, error)
	menuFn                func(ctx context.Context, slug string) ([]domain.MenuEntry, error)
	billFn                func(ctx context.Context, billID uuid.UUID) (*domain.Bill, error)
	createOrderFn         func(ctx context.Context, slug string, req app.OrderRequest) (*app.OrderConfirmation, error)
	createFrontendOrderFn func(ctx context.Context, slug string, req app.FrontendOrderRequest) (*app.OrderConfirmation, error)
	createCaptainOrderFn  func(ctx context.Context, identity domain.Identity, req app.OrderRequest) (*app.OrderConfirmation, error)
	addItemsFn            func(ctx context.Context, identity domain.Identity, billID uuid.UUID, items []app.OrderItemRequest) (*app.OrderConfirmation, error)
	updateItemStatusFn    func(ctx context.Context, identity domain.Identity, itemID uuid.UUID, status string) (string, error)
	activeKitchenOrdersFn func(ctx context.Context, identity domain.Identity) ([]domain.KitchenOrder, error)
}

func (m *mockAppService) RestaurantBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	if m.restaurantBySlugFn != nil {
		return m.restaurantBySlugFn(ctx, slug)
	}
	return nil, apperrors.NotFoundError("restaurant not found")
}

func (m *mockAppService) Menu(ctx context.Context, slug string) ([]domain.MenuEntry, error) {
	if m.menuFn != nil {
		return m.menuFn(ctx, slug)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Bill(ctx context.Context, billID uuid.UUID) (*domain.Bill, error) {
	if m.billFn != nil {
		return m.billFn(ctx, billID)
	}
	return nil, apperrors.NotFoundError("bill not found")
}

func (m *mockAppService) CreateOrder(ctx context.Context, slug string, req app.OrderRequest) (*app.OrderConfirmation, error) {
	if m.createOrderFn != nil {
		return m.createOrderFn(ctx, slug, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CreateFrontendOrder(ctx context.Context, slug string, req app.FrontendOrderRequest) (*app.OrderConfirmation, error) {
	if m.createFrontendOrderFn != nil {
		return m.createFrontendOrderFn(ctx, slug, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CreateCaptainOrder(ctx context.Context, identity domain.Identity, req app.OrderRequest) (*app.OrderConfirmation, error) {
	if m.createCaptainOrderFn != nil {
		return m.createCaptainOrderFn(ctx, identity, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) AddItems(ctx context.Context, identity domain.Identity, billID uuid.UUID, items []app.OrderItemRequest) (*app.OrderConfirmation, error) {
	if m.addItemsFn != nil {
		return m.addItemsFn(ctx, identity, billID, items)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpdateItemStatus(ctx context.Context, identity domain.Identity, itemID uuid.UUID, status string) (string, error) {
	if m.updateItemStatusFn != nil {
		return m.updateItemStatusFn(ctx, identity, itemID, status)
	}
	return "", errors.New("not implemented")
}

func (m *mockAppService) ActiveKitchenOrders(ctx context.Context, identity domain.Identity) ([]domain.KitchenOrder, error) {
	if m.activeKitchenOrdersFn != nil {
		return m.activeKitchenOrdersFn(ctx, identity)
	}
	return nil, errors.New("not implemented")
}

type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, token string) (*domain.Identity, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, token)
	}
	return nil, apperrors.ForbiddenError("invalid token")
}

// --- Test helpers ---

func newTestServer(t *testing.T, appSvc appService, auth authenticator) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:             "test",
		Port:               "0",
		MaxClientsPerTopic: 8,
	}
	reg := registry.New(clockwork.NewRealClock(), cfg.MaxClientsPerTopic, 5*time.Second)
	t.Cleanup(reg.Close)

	return NewServer(cfg, appSvc, auth, reg, nil)
}

// staffAuthenticator accepts exactly one token and returns the identity.
func staffAuthenticator(token string, identity domain.Identity) *mockAuthenticator {
	return &mockAuthenticator{
		authenticateFn: func(_ context.Context, got string) (*domain.Identity, error) {
			if got != token {
				return nil, apperrors.ForbiddenError("invalid token")
			}
			return &identity, nil
		},
	}
}

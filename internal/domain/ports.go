package domain

import (
	"context"

	"github.com/google/uuid"
)

// OrderStore is the persistent store the pipelines write through.
// Implementations return the sentinel errors from errors.go for missing rows.
type OrderStore interface {
	GetRestaurant(ctx context.Context, slug string) (*Restaurant, error)
	GetRestaurantByID(ctx context.Context, id uuid.UUID) (*Restaurant, error)

	CreateBill(ctx context.Context, restaurantID uuid.UUID, customerName, tableNumber string) (*Bill, error)
	// DeleteBill removes a bill and all of its order items. It is the
	// compensating step of the intake pipeline and must leave no orphans.
	DeleteBill(ctx context.Context, billID uuid.UUID) error
	GetBill(ctx context.Context, billID uuid.UUID) (*Bill, error)
	// GetOpenBill returns the bill only while its payment is still pending.
	GetOpenBill(ctx context.Context, billID uuid.UUID) (*Bill, error)

	// ResolveVariant looks up a variant scoped to the restaurant, by ID or
	// by (menu item, variant name) depending on the reference form.
	ResolveVariant(ctx context.Context, restaurantID uuid.UUID, ref VariantRef) (*Variant, error)
	CreateOrderItem(ctx context.Context, billID, variantID uuid.UUID, quantity int) (*OrderItem, error)
	GetOrderItem(ctx context.Context, itemID uuid.UUID) (*OrderItemDetail, error)
	UpdateOrderItemStatus(ctx context.Context, itemID uuid.UUID, status OrderStatus) error

	ActiveKitchenOrders(ctx context.Context, restaurantID uuid.UUID) ([]KitchenOrder, error)
	ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]MenuEntry, error)
}

// StaffStore resolves staff credentials.
type StaffStore interface {
	GetStaffByTokenHash(ctx context.Context, tokenHash string) (*Identity, error)
}

// PermissionChecker gates kitchen-management operations.
type PermissionChecker interface {
	HasKitchenCapability(identity Identity, restaurantID uuid.UUID) bool
}

// EventPublisher delivers domain events to live subscribers. Delivery is
// best effort: callers log a returned error and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

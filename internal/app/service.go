package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
	"github.com/Aladin-0/RM-Backend/internal/geo"
	"github.com/Aladin-0/RM-Backend/internal/metrics"
)

// Service orchestrates the order intake and status update pipelines.
type Service struct {
	store     domain.OrderStore
	publisher domain.EventPublisher
	perms     domain.PermissionChecker
}

func NewService(store domain.OrderStore, publisher domain.EventPublisher, perms domain.PermissionChecker) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		perms:     perms,
	}
}

// RestaurantBySlug resolves a restaurant for the menu and websocket
// handshake paths.
func (s *Service) RestaurantBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	restaurant, err := s.store.GetRestaurant(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			return nil, apperrors.NotFoundError("restaurant not found").WithField("slug", slug)
		}
		return nil, apperrors.InternalError("failed to load restaurant", err)
	}
	return restaurant, nil
}

// Menu lists the available menu items of a restaurant.
func (s *Service) Menu(ctx context.Context, slug string) ([]domain.MenuEntry, error) {
	restaurant, err := s.RestaurantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListMenu(ctx, restaurant.ID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load menu", err)
	}
	return entries, nil
}

// Bill loads a bill for the customer websocket handshake.
func (s *Service) Bill(ctx context.Context, billID uuid.UUID) (*domain.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		if errors.Is(err, domain.ErrBillNotFound) {
			return nil, apperrors.NotFoundError("bill not found").WithField("bill_id", billID.String())
		}
		return nil, apperrors.InternalError("failed to load bill", err)
	}
	return bill, nil
}

// CreateOrder is the public, geofenced intake path: the customer must be
// within the restaurant's configured radius.
func (s *Service) CreateOrder(ctx context.Context, slug string, req OrderRequest) (*OrderConfirmation, error) {
	restaurant, err := s.RestaurantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.checkGeofence(restaurant, req.Location); err != nil {
		return nil, err
	}

	confirmation, err := s.placeOrder(ctx, restaurant, req.CustomerName, req.TableNumber, req.Items)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreatedTotal.WithLabelValues("public").Inc()
	return confirmation, nil
}

// CreateCaptainOrder is the staff intake path. The restaurant comes from
// the authenticated identity, and no geofence applies.
func (s *Service) CreateCaptainOrder(ctx context.Context, identity domain.Identity, req OrderRequest) (*OrderConfirmation, error) {
	if identity.RestaurantID == uuid.Nil {
		return nil, apperrors.ValidationError("user is not associated with any restaurant")
	}

	restaurant, err := s.store.GetRestaurantByID(ctx, identity.RestaurantID)
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			return nil, apperrors.NotFoundError("restaurant not found")
		}
		return nil, apperrors.InternalError("failed to load restaurant", err)
	}

	confirmation, err := s.placeOrder(ctx, restaurant, req.CustomerName, req.TableNumber, req.Items)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreatedTotal.WithLabelValues("captain").Inc()
	return confirmation, nil
}

// CreateFrontendOrder is the alternate frontend contract: items reference
// variants by (menu item, variant name) and are resolved while the bill is
// being filled. A resolution failure mid-loop deletes the bill before the
// error is returned, so no orphan bill survives.
func (s *Service) CreateFrontendOrder(ctx context.Context, slug string, req FrontendOrderRequest) (*OrderConfirmation, error) {
	restaurant, err := s.RestaurantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.CustomerName == "" || req.TableNumber == "" {
		return nil, apperrors.ValidationError("customer_name and table_number are required")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.ValidationError("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperrors.ValidationError("quantity must be a positive integer")
		}
	}

	bill, err := s.store.CreateBill(ctx, restaurant.ID, req.CustomerName, req.TableNumber)
	if err != nil {
		return nil, apperrors.InternalError("failed to create bill", err)
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		ref := domain.VariantRef{MenuItemID: item.MenuItemID, VariantName: item.VariantName}
		variant, err := s.store.ResolveVariant(ctx, restaurant.ID, ref)
		if err != nil {
			s.rollbackBill(ctx, bill.ID)
			if errors.Is(err, domain.ErrVariantNotFound) {
				return nil, apperrors.ValidationError("an invalid menu item was submitted").
					WithField("menu_item_id", item.MenuItemID.String()).
					WithField("variant_name", item.VariantName)
			}
			return nil, apperrors.InternalError("failed to resolve variant", err)
		}

		line, err := s.appendItem(ctx, bill.ID, variant, item.Quantity)
		if err != nil {
			s.rollbackBill(ctx, bill.ID)
			return nil, err
		}
		lines = append(lines, line)
	}

	s.publishNewOrder(ctx, restaurant.Slug, bill, lines)
	metrics.OrdersCreatedTotal.WithLabelValues("frontend").Inc()

	return &OrderConfirmation{
		BillID:       bill.ID,
		CustomerName: bill.CustomerName,
		TableNumber:  bill.TableNumber,
		Items:        lines,
	}, nil
}

// AddItems appends validated items to an open bill (table-side reorder).
// The resulting NewOrder event carries only the new items and goes to the
// restaurant's own kitchen topic.
func (s *Service) AddItems(ctx context.Context, identity domain.Identity, billID uuid.UUID, items []OrderItemRequest) (*OrderConfirmation, error) {
	bill, err := s.store.GetOpenBill(ctx, billID)
	if err != nil {
		if errors.Is(err, domain.ErrBillNotFound) {
			return nil, apperrors.NotFoundError("active bill not found").WithField("bill_id", billID.String())
		}
		return nil, apperrors.InternalError("failed to load bill", err)
	}

	if identity.RestaurantID != bill.RestaurantID {
		return nil, apperrors.ForbiddenError("bill belongs to another restaurant")
	}

	restaurant, err := s.store.GetRestaurantByID(ctx, bill.RestaurantID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load restaurant", err)
	}

	variants, err := s.resolveItems(ctx, restaurant.ID, items)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for i, item := range items {
		line, err := s.appendItem(ctx, bill.ID, variants[i], item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	s.publishNewOrder(ctx, restaurant.Slug, bill, lines)

	return &OrderConfirmation{
		BillID:       bill.ID,
		CustomerName: bill.CustomerName,
		TableNumber:  bill.TableNumber,
		Items:        lines,
	}, nil
}

// UpdateItemStatus applies a status transition to an order item and
// notifies the owning bill's customer feed. The persisted transition is the
// source of truth: a broadcast failure is logged and never fails the call.
func (s *Service) UpdateItemStatus(ctx context.Context, identity domain.Identity, itemID uuid.UUID, statusStr string) (string, error) {
	status, ok := domain.ParseOrderStatus(statusStr)
	if !ok {
		return "", apperrors.ValidationError("invalid status provided").WithField("status", statusStr)
	}

	item, err := s.store.GetOrderItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderItemNotFound) {
			return "", apperrors.NotFoundError("order item not found").WithField("item_id", itemID.String())
		}
		return "", apperrors.InternalError("failed to load order item", err)
	}

	if !s.perms.HasKitchenCapability(identity, item.RestaurantID) {
		return "", apperrors.ForbiddenError("kitchen capability required for this restaurant")
	}

	if err := s.store.UpdateOrderItemStatus(ctx, itemID, status); err != nil {
		return "", apperrors.InternalError("failed to update order item status", err)
	}
	metrics.StatusUpdatesTotal.WithLabelValues(string(status)).Inc()

	event := &domain.StatusChangedEvent{
		BillID:      item.BillID,
		OrderItemID: item.ID,
		NewStatus:   status.Display(),
	}
	if status == domain.StatusAccepted {
		prep := item.PreparationTime
		event.PreparationTime = &prep
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		// The status update is already durable; the notification is a
		// best-effort convenience.
		slog.Error("Status broadcast failed", "error", err, "bill_id", item.BillID.String(), "item_id", item.ID.String())
	}

	return fmt.Sprintf("Order item %s updated to %s", itemID, status), nil
}

// ActiveKitchenOrders lists the caller's restaurant's open orders with at
// least one pending or accepted item.
func (s *Service) ActiveKitchenOrders(ctx context.Context, identity domain.Identity) ([]domain.KitchenOrder, error) {
	if !s.perms.HasKitchenCapability(identity, identity.RestaurantID) {
		return nil, apperrors.ForbiddenError("kitchen capability required")
	}

	orders, err := s.store.ActiveKitchenOrders(ctx, identity.RestaurantID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load kitchen orders", err)
	}
	return orders, nil
}

// --- intake helpers ---

func (s *Service) checkGeofence(restaurant *domain.Restaurant, location string) error {
	if location == "" {
		return apperrors.ValidationError("location is required")
	}

	customer, err := geo.ParseLocation(location)
	if err != nil {
		return apperrors.ValidationError("invalid location format").WithField("location", location)
	}

	origin := geo.Point{Lat: restaurant.Latitude, Lon: restaurant.Longitude}
	distance := geo.Distance(origin, customer)
	if distance > restaurant.RadiusMeters {
		metrics.GeofenceRejectionsTotal.Inc()
		return apperrors.ForbiddenError("you are too far away to place an order").
			WithField("distance_meters", int(distance)).
			WithField("radius_meters", int(restaurant.RadiusMeters))
	}
	return nil
}

// placeOrder runs the shared tail of the ID-referencing intake paths:
// all-or-nothing item validation, atomic persistence with compensating
// rollback, then the best-effort kitchen broadcast.
func (s *Service) placeOrder(ctx context.Context, restaurant *domain.Restaurant, customerName, tableNumber string, items []OrderItemRequest) (*OrderConfirmation, error) {
	if customerName == "" || tableNumber == "" {
		return nil, apperrors.ValidationError("customer_name and table_number are required")
	}
	if len(items) == 0 {
		return nil, apperrors.ValidationError("order must contain at least one item")
	}

	variants, err := s.resolveItems(ctx, restaurant.ID, items)
	if err != nil {
		return nil, err
	}

	bill, err := s.store.CreateBill(ctx, restaurant.ID, customerName, tableNumber)
	if err != nil {
		return nil, apperrors.InternalError("failed to create bill", err)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for i, item := range items {
		line, err := s.appendItem(ctx, bill.ID, variants[i], item.Quantity)
		if err != nil {
			s.rollbackBill(ctx, bill.ID)
			return nil, err
		}
		lines = append(lines, line)
	}

	s.publishNewOrder(ctx, restaurant.Slug, bill, lines)

	return &OrderConfirmation{
		BillID:       bill.ID,
		CustomerName: bill.CustomerName,
		TableNumber:  bill.TableNumber,
		Items:        lines,
	}, nil
}

// resolveItems validates every item before anything is persisted. One bad
// item fails the whole order.
func (s *Service) resolveItems(ctx context.Context, restaurantID uuid.UUID, items []OrderItemRequest) ([]*domain.Variant, error) {
	if len(items) == 0 {
		return nil, apperrors.ValidationError("order must contain at least one item")
	}

	variants := make([]*domain.Variant, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, apperrors.ValidationError("quantity must be a positive integer")
		}

		variant, err := s.store.ResolveVariant(ctx, restaurantID, domain.VariantRef{VariantID: item.VariantID})
		if err != nil {
			if errors.Is(err, domain.ErrVariantNotFound) {
				return nil, apperrors.ValidationError("an invalid menu item was submitted").
					WithField("variant_id", item.VariantID.String())
			}
			return nil, apperrors.InternalError("failed to resolve variant", err)
		}
		variants[i] = variant
	}
	return variants, nil
}

func (s *Service) appendItem(ctx context.Context, billID uuid.UUID, variant *domain.Variant, quantity int) (domain.OrderLine, error) {
	orderItem, err := s.store.CreateOrderItem(ctx, billID, variant.ID, quantity)
	if err != nil {
		return domain.OrderLine{}, apperrors.InternalError("failed to create order item", err)
	}
	return domain.OrderLine{
		OrderItemID: orderItem.ID,
		Name:        variant.MenuItemName,
		Variant:     variant.Name,
		Quantity:    orderItem.Quantity,
	}, nil
}

// rollbackBill is the compensating step of the intake pipeline. The bill
// delete cascades to its order items, so the end state matches a rolled
// back transaction.
func (s *Service) rollbackBill(ctx context.Context, billID uuid.UUID) {
	metrics.OrderRollbacksTotal.Inc()
	if err := s.store.DeleteBill(ctx, billID); err != nil {
		slog.Error("Compensating bill delete failed", "error", err, "bill_id", billID.String())
	}
}

func (s *Service) publishNewOrder(ctx context.Context, slug string, bill *domain.Bill, lines []domain.OrderLine) {
	event := &domain.NewOrderEvent{
		RestaurantSlug: slug,
		BillID:         bill.ID,
		CustomerName:   bill.CustomerName,
		TableNumber:    bill.TableNumber,
		Items:          lines,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The order is already durable; the kitchen will pick it up from
		// the active orders list.
		slog.Error("New order broadcast failed", "error", err, "bill_id", bill.ID.String(), "restaurant_slug", slug)
	}
}

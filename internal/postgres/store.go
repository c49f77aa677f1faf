package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aladin-0/RM-Backend/internal/domain"
)

// Store implements domain.OrderStore and domain.StaffStore against a
// pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetRestaurant(ctx context.Context, slug string) (*domain.Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, slug, name, latitude, longitude, radius_meters, created_at
		FROM restaurants
		WHERE slug = $1`, slug)
	return scanRestaurant(row)
}

func (s *Store) GetRestaurantByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, slug, name, latitude, longitude, radius_meters, created_at
		FROM restaurants
		WHERE id = $1`, id)
	return scanRestaurant(row)
}

func scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	var r domain.Restaurant
	err := row.Scan(&r.ID, &r.Slug, &r.Name, &r.Latitude, &r.Longitude, &r.RadiusMeters, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return &r, nil
}

func (s *Store) CreateBill(ctx context.Context, restaurantID uuid.UUID, customerName, tableNumber string) (*domain.Bill, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO bills (restaurant_id, customer_name, table_number)
		VALUES ($1, $2, $3)
		RETURNING id, restaurant_id, customer_name, table_number, payment_status, created_at`,
		restaurantID, customerName, tableNumber)

	var b domain.Bill
	if err := row.Scan(&b.ID, &b.RestaurantID, &b.CustomerName, &b.TableNumber, &b.PaymentStatus, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return &b, nil
}

// DeleteBill removes a bill; its order items go with it via the cascade.
func (s *Store) DeleteBill(ctx context.Context, billID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, billID uuid.UUID) (*domain.Bill, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, customer_name, table_number, payment_status, created_at
		FROM bills
		WHERE id = $1`, billID)
	return scanBill(row)
}

func (s *Store) GetOpenBill(ctx context.Context, billID uuid.UUID) (*domain.Bill, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, customer_name, table_number, payment_status, created_at
		FROM bills
		WHERE id = $1 AND payment_status = 'PENDING'`, billID)
	return scanBill(row)
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(&b.ID, &b.RestaurantID, &b.CustomerName, &b.TableNumber, &b.PaymentStatus, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &b, nil
}

// ResolveVariant looks a variant up within one restaurant's menu, either
// by ID or by the (menu item, variant name) pair. Unavailable menu items
// resolve as not found.
func (s *Store) ResolveVariant(ctx context.Context, restaurantID uuid.UUID, ref domain.VariantRef) (*domain.Variant, error) {
	var row pgx.Row
	if ref.ByID() {
		row = s.pool.QueryRow(ctx, `
			SELECT v.id, v.menu_item_id, m.name, v.variant_name, v.price, v.preparation_time
			FROM menu_item_variants v
			JOIN menu_items m ON m.id = v.menu_item_id
			WHERE v.id = $1 AND m.restaurant_id = $2 AND m.is_available`,
			ref.VariantID, restaurantID)
	} else {
		row = s.pool.QueryRow(ctx, `
			SELECT v.id, v.menu_item_id, m.name, v.variant_name, v.price, v.preparation_time
			FROM menu_item_variants v
			JOIN menu_items m ON m.id = v.menu_item_id
			WHERE v.menu_item_id = $1 AND v.variant_name = $2 AND m.restaurant_id = $3 AND m.is_available`,
			ref.MenuItemID, ref.VariantName, restaurantID)
	}

	var v domain.Variant
	err := row.Scan(&v.ID, &v.MenuItemID, &v.MenuItemName, &v.Name, &v.Price, &v.PreparationTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve variant: %w", err)
	}
	return &v, nil
}

func (s *Store) CreateOrderItem(ctx context.Context, billID, variantID uuid.UUID, quantity int) (*domain.OrderItem, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO order_items (bill_id, variant_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, bill_id, variant_id, quantity, status, created_at`,
		billID, variantID, quantity)

	var item domain.OrderItem
	if err := row.Scan(&item.ID, &item.BillID, &item.VariantID, &item.Quantity, &item.Status, &item.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return &item, nil
}

func (s *Store) GetOrderItem(ctx context.Context, itemID uuid.UUID) (*domain.OrderItemDetail, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT i.id, i.bill_id, i.variant_id, i.quantity, i.status, i.created_at,
		       b.restaurant_id, m.name, v.variant_name, v.preparation_time
		FROM order_items i
		JOIN bills b ON b.id = i.bill_id
		JOIN menu_item_variants v ON v.id = i.variant_id
		JOIN menu_items m ON m.id = v.menu_item_id
		WHERE i.id = $1`, itemID)

	var d domain.OrderItemDetail
	err := row.Scan(&d.ID, &d.BillID, &d.VariantID, &d.Quantity, &d.Status, &d.CreatedAt,
		&d.RestaurantID, &d.MenuItemName, &d.VariantName, &d.PreparationTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order item: %w", err)
	}
	return &d, nil
}

func (s *Store) UpdateOrderItemStatus(ctx context.Context, itemID uuid.UUID, status domain.OrderStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE order_items SET status = $2 WHERE id = $1`, itemID, status)
	if err != nil {
		return fmt.Errorf("failed to update order item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderItemNotFound
	}
	return nil
}

// ActiveKitchenOrders returns open bills with at least one item still
// waiting on the kitchen (PENDING or ACCEPTED), oldest first. Eligible
// bills carry their full item list, finished lines included, so the
// panel shows the whole order's progress.
func (s *Store) ActiveKitchenOrders(ctx context.Context, restaurantID uuid.UUID) ([]domain.KitchenOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT b.id, b.table_number, b.customer_name, b.created_at,
		       i.id, m.name, v.variant_name, i.quantity, i.status
		FROM bills b
		JOIN order_items i ON i.bill_id = b.id
		JOIN menu_item_variants v ON v.id = i.variant_id
		JOIN menu_items m ON m.id = v.menu_item_id
		WHERE b.restaurant_id = $1
		  AND b.payment_status = 'PENDING'
		  AND EXISTS (
			SELECT 1 FROM order_items w
			WHERE w.bill_id = b.id AND w.status IN ('PENDING', 'ACCEPTED')
		  )
		ORDER BY b.created_at, i.created_at`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kitchen orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.KitchenOrder
	byBill := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			billID       uuid.UUID
			tableNumber  string
			customerName string
			createdAt    time.Time
			line         domain.KitchenOrderLine
		)
		if err := rows.Scan(&billID, &tableNumber, &customerName, &createdAt,
			&line.OrderItemID, &line.Name, &line.VariantName, &line.Quantity, &line.Status); err != nil {
			return nil, fmt.Errorf("failed to scan kitchen order: %w", err)
		}

		idx, ok := byBill[billID]
		if !ok {
			orders = append(orders, domain.KitchenOrder{
				BillID:       billID,
				TableNumber:  tableNumber,
				CustomerName: customerName,
				CreatedAt:    createdAt,
			})
			idx = len(orders) - 1
			byBill[billID] = idx
		}
		orders[idx].Items = append(orders[idx].Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read kitchen orders: %w", err)
	}
	return orders, nil
}

// ListMenu returns the available menu items of a restaurant with their
// variants, for the public ordering page.
func (s *Store) ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]domain.MenuEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.name, m.description,
		       v.variant_name, v.price, v.preparation_time
		FROM menu_items m
		JOIN menu_item_variants v ON v.menu_item_id = m.id
		WHERE m.restaurant_id = $1 AND m.is_available
		ORDER BY m.name, v.price`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	defer rows.Close()

	var entries []domain.MenuEntry
	byItem := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			itemID      uuid.UUID
			name        string
			description string
			variant     domain.MenuVariant
		)
		if err := rows.Scan(&itemID, &name, &description, &variant.Name, &variant.Price, &variant.PreparationTime); err != nil {
			return nil, fmt.Errorf("failed to scan menu entry: %w", err)
		}

		idx, ok := byItem[itemID]
		if !ok {
			entries = append(entries, domain.MenuEntry{ID: itemID, Name: name, Description: description})
			idx = len(entries) - 1
			byItem[itemID] = idx
		}
		entries[idx].Variants = append(entries[idx].Variants, variant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	return entries, nil
}

func (s *Store) GetStaffByTokenHash(ctx context.Context, tokenHash string) (*domain.Identity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT staff_id, name, role, restaurant_id
		FROM staff_tokens
		WHERE token_hash = $1`, tokenHash)

	var identity domain.Identity
	err := row.Scan(&identity.ID, &identity.Name, &identity.Role, &identity.RestaurantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up staff token: %w", err)
	}
	return &identity, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bill is the aggregate root for one dining session at a table.
type Bill struct {
	ID            uuid.UUID     `db:"id"`
	RestaurantID  uuid.UUID     `db:"restaurant_id"`
	CustomerName  string        `db:"customer_name"`
	TableNumber   string        `db:"table_number"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
}

// OrderItem is one line of a bill, referencing exactly one variant.
type OrderItem struct {
	ID        uuid.UUID   `db:"id"`
	BillID    uuid.UUID   `db:"bill_id"`
	VariantID uuid.UUID   `db:"variant_id"`
	Quantity  int         `db:"quantity"`
	Status    OrderStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
}

// OrderItemDetail is an order item joined with its bill's restaurant and
// its variant, as needed by the status pipeline.
type OrderItemDetail struct {
	OrderItem
	RestaurantID    uuid.UUID
	MenuItemName    string
	VariantName     string
	PreparationTime int
}

// OrderLine is the enriched item shape used in confirmations and the
// NewOrder broadcast payload.
type OrderLine struct {
	OrderItemID uuid.UUID `json:"order_item_id"`
	Name        string    `json:"name"`
	Variant     string    `json:"variant"`
	Quantity    int       `json:"quantity"`
}

// KitchenOrderLine is one item of a kitchen order view, including its status.
type KitchenOrderLine struct {
	OrderItemID uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	VariantName string    `json:"variant_name"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
}

// KitchenOrder is an open bill as shown on the kitchen panel.
type KitchenOrder struct {
	BillID       uuid.UUID          `json:"id"`
	TableNumber  string             `json:"table_number"`
	CustomerName string             `json:"customer_name"`
	CreatedAt    time.Time          `json:"created_at"`
	Items        []KitchenOrderLine `json:"order_items"`
}

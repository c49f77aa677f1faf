package app

import (
	"github.com/google/uuid"

	"github.com/Aladin-0/RM-Backend/internal/domain"
)

// OrderItemRequest references a variant directly by ID.
type OrderItemRequest struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
}

// OrderRequest is the table-side order payload. Location is the customer's
// "lat,lon" position, required on the public path only.
type OrderRequest struct {
	CustomerName string             `json:"customer_name"`
	TableNumber  string             `json:"table_number"`
	Location     string             `json:"location"`
	Items        []OrderItemRequest `json:"order_items"`
}

// FrontendItemRequest references a variant by menu item and variant name,
// the contract used by the customer-facing frontend.
type FrontendItemRequest struct {
	MenuItemID  uuid.UUID `json:"menu_item_id"`
	VariantName string    `json:"variant_name"`
	Quantity    int       `json:"quantity"`
}

// FrontendOrderRequest is the frontend-contract order payload.
type FrontendOrderRequest struct {
	CustomerName string                `json:"customer_name"`
	TableNumber  string                `json:"table_number"`
	Items        []FrontendItemRequest `json:"items"`
}

// OrderConfirmation is returned to the caller after a successful intake.
type OrderConfirmation struct {
	BillID       uuid.UUID          `json:"bill_id"`
	CustomerName string             `json:"customer_name"`
	TableNumber  string             `json:"table_number"`
	Items        []domain.OrderLine `json:"order_items"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID           uuid.UUID `db:"id"`
	Slug         string    `db:"slug"`
	Name         string    `db:"name"`
	Latitude     float64   `db:"latitude"`
	Longitude    float64   `db:"longitude"`
	RadiusMeters float64   `db:"radius_meters"`
	CreatedAt    time.Time `db:"created_at"`
}

type MenuItem struct {
	ID           uuid.UUID `db:"id"`
	RestaurantID uuid.UUID `db:"restaurant_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	IsAvailable  bool      `db:"is_available"`
}

// Variant is a priced, timed option of a menu item (e.g. a size).
// MenuItemName is denormalized so order lines can be enriched without
// a second lookup.
type Variant struct {
	ID              uuid.UUID `db:"id"`
	MenuItemID      uuid.UUID `db:"menu_item_id"`
	MenuItemName    string    `db:"menu_item_name"`
	Name            string    `db:"variant_name"`
	Price           float64   `db:"price"`
	PreparationTime int       `db:"preparation_time"`
}

// VariantRef identifies a variant either directly by ID or by the
// (menu item, variant name) pair used by the frontend order contract.
type VariantRef struct {
	VariantID   uuid.UUID
	MenuItemID  uuid.UUID
	VariantName string
}

// ByID reports whether the reference carries a direct variant ID.
func (r VariantRef) ByID() bool {
	return r.VariantID != uuid.Nil
}

// MenuVariant is the public menu view of a variant.
type MenuVariant struct {
	Name            string  `json:"variant_name"`
	Price           float64 `json:"price"`
	PreparationTime int     `json:"preparation_time"`
}

// MenuEntry is one menu item with its variants, as served to the ordering UI.
type MenuEntry struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Variants    []MenuVariant `json:"variants"`
}

// Identity is an authenticated staff member.
type Identity struct {
	ID           uuid.UUID
	Name         string
	Role         Role
	RestaurantID uuid.UUID
}

type Role string

const (
	RoleChef    Role = "CHEF"
	RoleCaptain Role = "CAPTAIN"
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
)

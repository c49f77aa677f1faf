package domain

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrBillNotFound       = errors.New("bill not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrTokenNotFound      = errors.New("staff token not found")
)

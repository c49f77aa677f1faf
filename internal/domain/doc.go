// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (restaurant.go, order.go, status.go, events.go, errors.go)
// hold shared types; ports.go holds the interfaces the pipelines consume.
// No implementation code here - just contracts. Keeping interfaces on the
// consumer side prevents circular imports.
package domain

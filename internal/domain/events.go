package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TopicKind distinguishes the two broadcast scopes.
type TopicKind string

const (
	// KitchenTopic is the per-restaurant feed watched by the kitchen panel.
	KitchenTopic TopicKind = "kitchen"
	// CustomerTopic is the per-bill feed watched by the ordering customer.
	CustomerTopic TopicKind = "customer"
)

// Topic is a named broadcast scope. Topics exist only while subscribed.
type Topic struct {
	Kind TopicKind
	Key  string
}

func KitchenTopicFor(restaurantSlug string) Topic {
	return Topic{Kind: KitchenTopic, Key: restaurantSlug}
}

func CustomerTopicFor(billID uuid.UUID) Topic {
	return Topic{Kind: CustomerTopic, Key: billID.String()}
}

// String renders the topic as "kind:key", the form used for shard hashing
// and relay channel names.
func (t Topic) String() string {
	return string(t.Kind) + ":" + t.Key
}

// ParseTopic is the inverse of Topic.String.
func ParseTopic(s string) (Topic, error) {
	kind, key, ok := strings.Cut(s, ":")
	if !ok || key == "" {
		return Topic{}, fmt.Errorf("malformed topic %q", s)
	}
	switch TopicKind(kind) {
	case KitchenTopic, CustomerTopic:
		return Topic{Kind: TopicKind(kind), Key: key}, nil
	default:
		return Topic{}, fmt.Errorf("unknown topic kind %q", kind)
	}
}

// Event is a domain event produced by a pipeline and consumed by the
// dispatcher. Events are immutable once constructed and never persisted.
type Event interface {
	isEvent()
}

// NewOrderEvent announces freshly created order items to a kitchen.
// RestaurantSlug scopes the broadcast and is not part of the payload.
type NewOrderEvent struct {
	RestaurantSlug string      `json:"-"`
	BillID         uuid.UUID   `json:"bill_id"`
	CustomerName   string      `json:"customer_name"`
	TableNumber    string      `json:"table_number"`
	Items          []OrderLine `json:"items"`
}

func (*NewOrderEvent) isEvent() {}

// StatusChangedEvent announces an item status transition to the owning
// bill's customer feed. PreparationTime is set only when the item was
// just accepted.
type StatusChangedEvent struct {
	BillID          uuid.UUID `json:"-"`
	OrderItemID     uuid.UUID `json:"order_item_id"`
	NewStatus       string    `json:"new_status"`
	PreparationTime *int      `json:"preparation_time,omitempty"`
}

func (*StatusChangedEvent) isEvent() {}

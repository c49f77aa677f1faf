package broadcast

import "github.com/Aladin-0/RM-Backend/internal/domain"

// TopicsFor resolves the topics a domain event must reach. Pure lookup,
// no failure modes: an unknown event kind routes nowhere.
func TopicsFor(event domain.Event) []domain.Topic {
	switch e := event.(type) {
	case *domain.NewOrderEvent:
		return []domain.Topic{domain.KitchenTopicFor(e.RestaurantSlug)}
	case *domain.StatusChangedEvent:
		return []domain.Topic{domain.CustomerTopicFor(e.BillID)}
	default:
		return nil
	}
}

func eventKind(event domain.Event) string {
	switch event.(type) {
	case *domain.NewOrderEvent:
		return "new_order"
	case *domain.StatusChangedEvent:
		return "status_changed"
	default:
		return "unknown"
	}
}

package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	"github.com/Aladin-0/RM-Backend/internal/metrics"
	"github.com/Aladin-0/RM-Backend/internal/registry"
)

// Dispatcher delivers domain events to the local registry's subscribers.
// It implements domain.EventPublisher.
type Dispatcher struct {
	registry *registry.Registry
}

func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Publish serializes the event once per topic and fans it out. A marshal
// failure is the only error it can return; delivery failures are contained
// here.
func (d *Dispatcher) Publish(_ context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventKind(event), err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(eventKind(event)).Inc()
	for _, topic := range TopicsFor(event) {
		d.Deliver(topic, payload)
	}
	return nil
}

// Deliver pushes a serialized payload to every connection currently
// subscribed to the topic. Connections that reject the send (closed socket,
// full buffer) are evicted asynchronously; delivery to the rest continues.
func (d *Dispatcher) Deliver(topic domain.Topic, payload []byte) {
	for _, client := range d.registry.Snapshot(topic) {
		if client.TrySend(payload) {
			continue
		}
		slog.Warn("Evicting unresponsive subscriber", "topic", topic.String())
		metrics.SlowClientsEvictedTotal.Inc()
		go d.registry.Evict(client)
	}
}

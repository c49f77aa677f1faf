package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Aladin-0/RM-Backend/internal/broadcast"
	"github.com/Aladin-0/RM-Backend/internal/domain"
	"github.com/Aladin-0/RM-Backend/internal/metrics"
)

// channelPrefix namespaces the relay's Pub/Sub channels, one per topic.
const channelPrefix = "orders:"

// Deliverer is the local fan-out sink of the relay.
type Deliverer interface {
	Deliver(topic domain.Topic, payload []byte)
}

// Bus implements domain.EventPublisher over Redis Pub/Sub so that every
// server instance sees every event. Events published here come back
// through the subscription loop, which hands them to the local deliverer;
// instances never deliver directly.
type Bus struct {
	rdb       *goredis.Client
	deliverer Deliverer

	sub    *goredis.PubSub
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBus starts the relay's subscription loop and returns the bus.
func NewBus(ctx context.Context, client *Client, deliverer Deliverer) *Bus {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b := &Bus{
		rdb:       client.rdb,
		deliverer: deliverer,
		sub:       client.rdb.PSubscribe(loopCtx, channelPrefix+"*"),
		cancel:    cancel,
	}

	// Wait for the subscription confirmation so events published right
	// after construction are not lost.
	if _, err := b.sub.Receive(ctx); err != nil {
		slog.Warn("Relay subscription not confirmed", "error", err)
	}

	b.wg.Add(1)
	go b.run(loopCtx)
	return b
}

// Publish relays the event to every subscribed instance, this one included.
func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	for _, topic := range broadcast.TopicsFor(event) {
		if err := b.rdb.Publish(ctx, channelPrefix+topic.String(), payload).Err(); err != nil {
			metrics.RelayPublishErrorsTotal.Inc()
			return fmt.Errorf("failed to relay event to %s: %w", topic.String(), err)
		}
	}
	return nil
}

func (b *Bus) run(ctx context.Context) {
	defer b.wg.Done()

	msgCh := b.sub.Channel()
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			name := strings.TrimPrefix(msg.Channel, channelPrefix)
			topic, err := domain.ParseTopic(name)
			if err != nil {
				slog.Warn("Ignoring relay message on unknown channel", "channel", msg.Channel)
				continue
			}
			b.deliverer.Deliver(topic, []byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the subscription loop and waits for it to exit.
func (b *Bus) Close() error {
	b.cancel()
	err := b.sub.Close()
	b.wg.Wait()
	return err
}

package registry

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	"github.com/Aladin-0/RM-Backend/internal/metrics"
)

const shardCount = 32

// Subscription is the handle returned by Subscribe. It binds one connection
// to one topic for the connection's lifetime.
type Subscription struct {
	topic  domain.Topic
	client *Client
	once   sync.Once
}

// Topic returns the topic this subscription belongs to.
func (s *Subscription) Topic() domain.Topic {
	return s.topic
}

type shard struct {
	mu     sync.Mutex
	topics map[string]map[*Client]struct{}
}

// Registry owns all connection lifetimes. Subscribe, Unsubscribe and
// Snapshot are safe for concurrent use.
type Registry struct {
	clock              clockwork.Clock
	maxClientsPerTopic int
	writeTimeout       time.Duration
	shards             [shardCount]shard
}

// New creates a Registry. maxClientsPerTopic bounds fan-in per topic to
// prevent resource exhaustion; writeTimeout caps each outbound frame.
func New(clock clockwork.Clock, maxClientsPerTopic int, writeTimeout time.Duration) *Registry {
	r := &Registry{
		clock:              clock,
		maxClientsPerTopic: maxClientsPerTopic,
		writeTimeout:       writeTimeout,
	}
	for i := range r.shards {
		r.shards[i].topics = make(map[string]map[*Client]struct{})
	}
	return r
}

func (r *Registry) shardFor(topic domain.Topic) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic.String()))
	return &r.shards[h.Sum32()%shardCount]
}

// Subscribe registers a connection under a topic and starts its writer.
// The registry owns the connection from this point on.
func (r *Registry) Subscribe(topic domain.Topic, conn *websocket.Conn) (*Subscription, error) {
	client := newClient(conn, r.clock, r.writeTimeout)
	sub := &Subscription{topic: topic, client: client}
	client.sub = sub

	s := r.shardFor(topic)
	key := topic.String()

	s.mu.Lock()
	clients := s.topics[key]
	if len(clients) >= r.maxClientsPerTopic {
		s.mu.Unlock()
		client.stop()
		return nil, fmt.Errorf("max clients per topic (%d) reached", r.maxClientsPerTopic)
	}
	if clients == nil {
		clients = make(map[*Client]struct{})
		s.topics[key] = clients
		metrics.ActiveTopics.Inc()
	}
	clients[client] = struct{}{}
	total := len(clients)
	s.mu.Unlock()

	metrics.ConnectedClients.Inc()
	slog.Debug("Client subscribed", "topic", key, "total_clients", total)
	return sub, nil
}

// Unsubscribe removes a subscription and stops its writer. Calling it with
// an already-removed or nil subscription is a no-op: disconnects are raced
// by both the read pump and dispatcher eviction.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		s := r.shardFor(sub.topic)
		key := sub.topic.String()

		s.mu.Lock()
		if clients, exists := s.topics[key]; exists {
			if _, present := clients[sub.client]; present {
				delete(clients, sub.client)
				metrics.ConnectedClients.Dec()
				if len(clients) == 0 {
					delete(s.topics, key)
					metrics.ActiveTopics.Dec()
					slog.Debug("Last client left topic", "topic", key)
				}
			}
		}
		s.mu.Unlock()

		sub.client.stop()
	})
}

// Evict unsubscribes the client that owns a failed connection. Used by the
// dispatcher when a send hits a full buffer or a dead socket.
func (r *Registry) Evict(c *Client) {
	r.Unsubscribe(c.sub)
}

// Snapshot returns the connections currently subscribed to a topic as a
// copied slice. Callers must tolerate clients disappearing after the copy.
func (r *Registry) Snapshot(topic domain.Topic) []*Client {
	s := r.shardFor(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, exists := s.topics[topic.String()]
	if !exists {
		return nil
	}
	snapshot := make([]*Client, 0, len(clients))
	for c := range clients {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

// ClientCount returns the number of subscribers for a topic.
func (r *Registry) ClientCount(topic domain.Topic) int {
	s := r.shardFor(topic)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.topics[topic.String()])
}

// TopicCount returns the number of topics with at least one subscriber.
func (r *Registry) TopicCount() int {
	total := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		total += len(s.topics)
		s.mu.Unlock()
	}
	return total
}

// Close unsubscribes every connection. Used during shutdown.
func (r *Registry) Close() {
	var subs []*Subscription
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for _, clients := range s.topics {
			for c := range clients {
				subs = append(subs, c.sub)
			}
		}
		s.mu.Unlock()
	}
	for _, sub := range subs {
		r.Unsubscribe(sub)
	}
}

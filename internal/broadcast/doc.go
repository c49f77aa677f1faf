// Package broadcast routes domain events to topics and fans them out to
// live subscribers.
//
// TopicsFor maps an event to its target topics; Dispatcher serializes the
// payload once per topic and attempts delivery to every connection in the
// registry snapshot. Per-connection failures evict that connection and are
// never surfaced to the publisher: the durable state change already
// succeeded by the time a broadcast is attempted.
package broadcast

// Package app is the application layer - the only component that touches
// multiple ports. It implements the order intake and status update
// pipelines: validated state transitions against the store followed by a
// best-effort broadcast of the resulting domain event.
package app

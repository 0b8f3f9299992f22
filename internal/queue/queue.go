// Package queue defines the interfaces for publishing run events.
// This abstraction allows the application to be independent of a specific
// messaging implementation (e.g., GCP Pub/Sub, RabbitMQ, Kafka).
package queue

import (
	"context"
)

// Provider defines the common interface for an event publisher.
type Provider interface {
	// Publish sends one message payload to the configured topic.
	Publish(ctx context.Context, payload []byte) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpProvider is a queue provider that performs no operations. It is the
// default when no downstream consumer is configured.
type NoOpProvider struct{}

// Publish for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Publish(_ context.Context, _ []byte) error { return nil }

// Close for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Close() error { return nil }

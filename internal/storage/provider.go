// Package storage defines the interfaces for archiving raw page snapshots.
// The archive exists for provenance: every page a run consumed can be
// replayed against the parser later. The abstraction keeps the pipeline
// independent of a specific backend (GCS, local filesystem, or none).
package storage

import (
	"context"
)

// Provider defines the common interface for a blob storage provider.
type Provider interface {
	// Save uploads data to a specified object path/key in the blob store.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider is a storage provider that performs no operations. It is
// the default: raw HTML is discarded after parsing.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}

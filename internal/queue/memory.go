package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider records published payloads for inspection. It is meant for
// tests and dry runs where the real topic is unavailable.
type MemoryProvider struct {
	mu       sync.RWMutex
	payloads [][]byte
	closed   bool
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

// Publish records the payload.
func (m *MemoryProvider) Publish(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("memory provider is closed")
	}
	m.payloads = append(m.payloads, append([]byte{}, payload...))
	return nil
}

// Payloads returns a copy of the recorded publishes.
func (m *MemoryProvider) Payloads() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, len(m.payloads))
	copy(out, m.payloads)
	return out
}

// Close marks the provider closed; further publishes fail.
func (m *MemoryProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

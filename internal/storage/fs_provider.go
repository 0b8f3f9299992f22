package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSProvider archives raw page snapshots under a local directory.
type FSProvider struct {
	root string
}

// NewFSProvider returns a provider rooted at dir, creating it if needed.
func NewFSProvider(root string) (*FSProvider, error) {
	if root == "" {
		return nil, fmt.Errorf("archive.fs.dir must be set")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", root, err)
	}
	return &FSProvider{root: root}, nil
}

// Save writes the object under the provider root, creating intermediate
// directories for slash-separated object names.
func (f *FSProvider) Save(ctx context.Context, objectName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	target := filepath.Join(f.root, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create archive dir for %s: %w", target, err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("write archive object %s: %w", target, err)
	}
	return nil
}

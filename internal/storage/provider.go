// Package storage defines the interfaces for a blob storage provider.
// This abstraction keeps the mirroring stage independent of a specific
// object-storage implementation.
package storage

import (
	"context"
)

// Provider defines the common interface for a blob storage provider.
type Provider interface {
	// EnsureBucket makes sure the target bucket exists, creating it if needed.
	EnsureBucket(ctx context.Context) error

	// PutFile uploads the file at filePath under the given object key.
	PutFile(ctx context.Context, objectName, filePath string) error
}

// NoOpProvider is a storage provider that performs no operations. It is
// useful for dry runs where media is downloaded but not persisted.
type NoOpProvider struct{}

// EnsureBucket for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) EnsureBucket(_ context.Context) error { return nil }

// PutFile for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) PutFile(_ context.Context, _, _ string) error { return nil }

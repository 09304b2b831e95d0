package storage

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MemoryProvider keeps uploaded objects in memory. It exists for tests and
// local experimentation.
type MemoryProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
	bucket  bool
}

// NewMemoryProvider returns an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string][]byte)}
}

// EnsureBucket marks the bucket as created.
func (m *MemoryProvider) EnsureBucket(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket = true
	return nil
}

// PutFile reads the file at filePath and stores its bytes under objectName.
func (m *MemoryProvider) PutFile(_ context.Context, objectName, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.bucket {
		return fmt.Errorf("bucket does not exist")
	}
	m.objects[objectName] = data
	return nil
}

// Object returns the stored bytes for objectName.
func (m *MemoryProvider) Object(objectName string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	return data, ok
}

// Len returns the number of stored objects.
func (m *MemoryProvider) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// EnsureBucket is the mock implementation of the EnsureBucket method.
func (m *MockProvider) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0) //nolint:wrapcheck
}

// PutFile is the mock implementation of the PutFile method.
func (m *MockProvider) PutFile(ctx context.Context, objectName, filePath string) error {
	args := m.Called(ctx, objectName, filePath)
	return args.Error(0) //nolint:wrapcheck
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fieldlens/internal/domain"
	"fieldlens/internal/service"
)

// MockUploadOrchestrator is a mock implementation of service.UploadOrchestrator.
type MockUploadOrchestrator struct {
	mock.Mock
}

func (m *MockUploadOrchestrator) Submit(ctx context.Context, req service.UploadRequest) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

func (m *MockUploadOrchestrator) State() domain.UploadState {
	args := m.Called()
	return args.Get(0).(domain.UploadState)
}

func (m *MockUploadOrchestrator) Result() *domain.ExtractionResult {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.ExtractionResult)
}

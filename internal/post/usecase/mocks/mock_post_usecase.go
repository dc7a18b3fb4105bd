// Package mocks provides mock implementations of the post use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	postDomain "github.com/allisson/blog/internal/post/domain"
)

// MockPostUseCase is a mock implementation of PostUseCase for testing.
type MockPostUseCase struct {
	mock.Mock
}

// List mocks the List method of PostUseCase.
func (m *MockPostUseCase) List(ctx context.Context) ([]*postDomain.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*postDomain.Post), args.Error(1)
}

// Get mocks the Get method of PostUseCase.
func (m *MockPostUseCase) Get(ctx context.Context, id string) (*postDomain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postDomain.Post), args.Error(1)
}

// Create mocks the Create method of PostUseCase.
func (m *MockPostUseCase) Create(ctx context.Context, title, content string) (*postDomain.Post, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postDomain.Post), args.Error(1)
}

// Update mocks the Update method of PostUseCase.
func (m *MockPostUseCase) Update(ctx context.Context, id, title, content string) (*postDomain.Post, error) {
	args := m.Called(ctx, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postDomain.Post), args.Error(1)
}

// Delete mocks the Delete method of PostUseCase.
func (m *MockPostUseCase) Delete(ctx context.Context, id string) (*postDomain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postDomain.Post), args.Error(1)
}

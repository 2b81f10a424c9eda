// Package mocks provides testify mocks for the engine's store ports
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"curator-backend/domain/core/entities"
)

// MockContentStore is a testify mock for ports.ContentStore
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) GetByID(ctx context.Context, id string) (*entities.ContentItem, error) {
	args := m.Called(ctx, id)
	if item := args.Get(0); item != nil {
		return item.(*entities.ContentItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContentStore) FindCandidates(ctx context.Context, excludeID string) ([]*entities.ContentItem, error) {
	args := m.Called(ctx, excludeID)
	if items := args.Get(0); items != nil {
		return items.([]*entities.ContentItem), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMetadataStore is a testify mock for ports.MetadataStore
type MockMetadataStore struct {
	mock.Mock
}

func (m *MockMetadataStore) GetByContentID(ctx context.Context, contentID string) (*entities.ContentMetadata, error) {
	args := m.Called(ctx, contentID)
	if record := args.Get(0); record != nil {
		return record.(*entities.ContentMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMetadataStore) UpsertRelatedLink(ctx context.Context, contentID string, link entities.RelatedContentLink) error {
	args := m.Called(ctx, contentID, link)
	return args.Error(0)
}

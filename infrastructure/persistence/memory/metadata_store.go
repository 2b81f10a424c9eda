package memory

import (
	"context"
	"fmt"
	"sync"

	"curator-backend/domain/core/entities"
	pkgerrors "curator-backend/pkg/errors"
)

// InMemoryMetadataStore provides an in-memory implementation of
// ports.MetadataStore, used for local development and tests
type InMemoryMetadataStore struct {
	mu      sync.RWMutex
	records map[string]*entities.ContentMetadata
}

// NewInMemoryMetadataStore creates a new in-memory metadata store
func NewInMemoryMetadataStore() *InMemoryMetadataStore {
	return &InMemoryMetadataStore{
		records: make(map[string]*entities.ContentMetadata),
	}
}

// Put stores or replaces a metadata record
func (s *InMemoryMetadataStore) Put(record *entities.ContentMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ContentID] = record
}

// GetByContentID retrieves the metadata record for a content item
func (s *InMemoryMetadataStore) GetByContentID(ctx context.Context, contentID string) (*entities.ContentMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[contentID]
	if !exists {
		return nil, pkgerrors.NewNotFound(fmt.Sprintf("metadata for content %s", contentID))
	}

	copied := *record
	copied.RelatedLinks = append([]entities.RelatedContentLink(nil), record.RelatedLinks...)
	return &copied, nil
}

// UpsertRelatedLink persists one discovered relationship, creating the
// metadata record when none exists yet. Idempotent per related id.
func (s *InMemoryMetadataStore) UpsertRelatedLink(ctx context.Context, contentID string, link entities.RelatedContentLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[contentID]
	if !exists {
		record = &entities.ContentMetadata{
			ContentID:    contentID,
			Keywords:     []string{},
			Tags:         []string{},
			QualityScore: entities.DefaultQualityScore,
		}
		s.records[contentID] = record
	}

	record.UpsertRelatedLink(link)
	return nil
}

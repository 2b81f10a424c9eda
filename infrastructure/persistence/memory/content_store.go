package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"curator-backend/domain/core/entities"
	pkgerrors "curator-backend/pkg/errors"
)

// InMemoryContentStore provides an in-memory implementation of
// ports.ContentStore, used for local development and tests
type InMemoryContentStore struct {
	mu    sync.RWMutex
	items map[string]*entities.ContentItem
}

// NewInMemoryContentStore creates a new in-memory content store
func NewInMemoryContentStore() *InMemoryContentStore {
	return &InMemoryContentStore{
		items: make(map[string]*entities.ContentItem),
	}
}

// Put stores or replaces a content item
func (s *InMemoryContentStore) Put(item *entities.ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// GetByID retrieves a content item by its ID
func (s *InMemoryContentStore) GetByID(ctx context.Context, id string) (*entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return nil, pkgerrors.NewNotFound(fmt.Sprintf("content %s", id))
	}

	copied := *item
	return &copied, nil
}

// FindCandidates returns all processed items excluding the given id,
// ordered by id for deterministic iteration
func (s *InMemoryContentStore) FindCandidates(ctx context.Context, excludeID string) ([]*entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]*entities.ContentItem, 0, len(s.items))
	for id, item := range s.items {
		if id == excludeID || !item.Processed {
			continue
		}
		copied := *item
		candidates = append(candidates, &copied)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	return candidates, nil
}

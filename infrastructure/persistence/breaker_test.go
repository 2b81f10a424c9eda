package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"curator-backend/domain/core/entities"
	"curator-backend/infrastructure/persistence/memory"
	pkgerrors "curator-backend/pkg/errors"
	"curator-backend/tests/fixtures"
)

// flakyContentStore fails every call with an UNAVAILABLE error
type flakyContentStore struct{}

func (f *flakyContentStore) GetByID(ctx context.Context, id string) (*entities.ContentItem, error) {
	return nil, pkgerrors.NewUnavailable("get content item", context.DeadlineExceeded)
}

func (f *flakyContentStore) FindCandidates(ctx context.Context, excludeID string) ([]*entities.ContentItem, error) {
	return nil, pkgerrors.NewUnavailable("query candidate pool", context.DeadlineExceeded)
}

func tightBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestContentStoreBreaker_PassesThroughHealthyStore(t *testing.T) {
	inner := memory.NewInMemoryContentStore()
	inner.Put(fixtures.NewContentBuilder("healthy").Build())

	store := NewContentStoreBreaker(inner, DefaultBreakerConfig("content"), zap.NewNop())

	item, err := store.GetByID(context.Background(), "healthy")
	require.NoError(t, err)
	assert.Equal(t, "healthy", item.ID)

	candidates, err := store.FindCandidates(context.Background(), "healthy")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestContentStoreBreaker_NotFoundDoesNotTrip(t *testing.T) {
	inner := memory.NewInMemoryContentStore()
	store := NewContentStoreBreaker(inner, tightBreakerConfig("content"), zap.NewNop())

	for i := 0; i < 10; i++ {
		_, err := store.GetByID(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err), "breaker must stay closed on misses")
	}
}

func TestContentStoreBreaker_OpenCircuitMapsToUnavailable(t *testing.T) {
	store := NewContentStoreBreaker(&flakyContentStore{}, tightBreakerConfig("content"), zap.NewNop())

	var err error
	for i := 0; i < 10; i++ {
		_, err = store.GetByID(context.Background(), "id")
		require.Error(t, err)
	}
	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestMetadataStoreBreaker_PassesThroughHealthyStore(t *testing.T) {
	inner := memory.NewInMemoryMetadataStore()
	store := NewMetadataStoreBreaker(inner, DefaultBreakerConfig("metadata"), zap.NewNop())

	link := entities.RelatedContentLink{
		RelatedContentID: "other",
		RelationshipType: entities.RelationSimilar,
		Strength:         0.42,
	}
	require.NoError(t, store.UpsertRelatedLink(context.Background(), "item", link))

	meta, err := store.GetByContentID(context.Background(), "item")
	require.NoError(t, err)
	require.Len(t, meta.RelatedLinks, 1)
	assert.Equal(t, "other", meta.RelatedLinks[0].RelatedContentID)
}

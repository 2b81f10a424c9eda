package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"curator-backend/application/ports"
	"curator-backend/domain/core/entities"
	"curator-backend/infrastructure/persistence/memory"
	pkgerrors "curator-backend/pkg/errors"
	"curator-backend/tests/fixtures"
	"curator-backend/tests/mocks"
)

func newTestFinder(content ports.ContentStore, metadata ports.MetadataStore) *RelatedContentFinder {
	return NewRelatedContentFinder(content, metadata, nil, nil, zap.NewNop(), nil)
}

// seedPool populates an in-memory content store with one source item and
// a pool of close and distant candidates
func seedPool(t *testing.T) (*memory.InMemoryContentStore, *memory.InMemoryMetadataStore) {
	t.Helper()

	contentStore := memory.NewInMemoryContentStore()
	metadataStore := memory.NewInMemoryMetadataStore()

	contentStore.Put(fixtures.NewContentBuilder("source").Build())

	// Near-identical to the source
	contentStore.Put(fixtures.NewContentBuilder("close-1").Build())
	contentStore.Put(fixtures.NewContentBuilder("close-2").Build())

	// Far from the source on every axis
	distant := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	contentStore.Put(fixtures.NewContentBuilder("distant-1").
		WithTitle("Sourdough Basics").
		WithAuthor("Grace Hopper").
		WithTopics("baking").
		WithCategories("food").
		WithPublishedAt(distant).
		WithSummary("Maintaining a healthy sourdough starter").
		Build())

	// Eligible only when the pool includes unprocessed items (it must not)
	contentStore.Put(fixtures.NewContentBuilder("unprocessed").Unprocessed().Build())

	return contentStore, metadataStore
}

func TestFindRelated_ThresholdAndLimitContracts(t *testing.T) {
	contentStore, metadataStore := seedPool(t)
	finder := newTestFinder(contentStore, metadataStore)

	opts := DefaultFindOptions()
	results, err := finder.FindRelated(context.Background(), "source", opts)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, result := range results {
		assert.GreaterOrEqual(t, result.Similarity, opts.Threshold)
		assert.NotEmpty(t, result.RelationshipType)
	}

	// Unprocessed items never appear
	for _, result := range results {
		assert.NotEqual(t, "unprocessed", result.Content.ID)
	}

	// Limit contract
	limited, err := finder.FindRelated(context.Background(), "source", FindOptions{
		Threshold:       0.1,
		Limit:           1,
		IncludeMetadata: true,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(limited), 1)
}

func TestFindRelated_SortedDescendingWithIDTieBreak(t *testing.T) {
	contentStore, metadataStore := seedPool(t)
	finder := newTestFinder(contentStore, metadataStore)

	results, err := finder.FindRelated(context.Background(), "source", DefaultFindOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		assert.GreaterOrEqual(t, prev.Similarity, cur.Similarity)
		if prev.Similarity == cur.Similarity {
			assert.Less(t, prev.Content.ID, cur.Content.ID)
		}
	}
}

func TestFindRelated_HighThresholdReturnsEmptyNotError(t *testing.T) {
	contentStore := memory.NewInMemoryContentStore()
	contentStore.Put(fixtures.NewContentBuilder("source").Build())
	contentStore.Put(fixtures.NewContentBuilder("weak").
		WithTitle("Vaguely Adjacent Notes").
		WithAuthor("Grace Hopper").
		WithTopics("ai", "robotics", "hardware").
		WithSummary("Robot arms and actuators").
		Build())
	finder := newTestFinder(contentStore, memory.NewInMemoryMetadataStore())

	results, err := finder.FindRelated(context.Background(), "source", FindOptions{
		Threshold:       0.9,
		Limit:           10,
		IncludeMetadata: true,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindRelated_SourceNotFound(t *testing.T) {
	contentStore := memory.NewInMemoryContentStore()
	finder := newTestFinder(contentStore, memory.NewInMemoryMetadataStore())

	_, err := finder.FindRelated(context.Background(), "missing", DefaultFindOptions())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestFindRelated_InvalidOptions(t *testing.T) {
	contentStore, metadataStore := seedPool(t)
	finder := newTestFinder(contentStore, metadataStore)

	_, err := finder.FindRelated(context.Background(), "source", FindOptions{Threshold: 1.5})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = finder.FindRelated(context.Background(), "source", FindOptions{Threshold: -0.1})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = finder.FindRelated(context.Background(), "", DefaultFindOptions())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestFindRelated_CandidateEnrichmentFailureIsolated(t *testing.T) {
	ctx := context.Background()
	contentStore := memory.NewInMemoryContentStore()
	contentStore.Put(fixtures.NewContentBuilder("source").Build())
	contentStore.Put(fixtures.NewContentBuilder("good").Build())
	contentStore.Put(fixtures.NewContentBuilder("broken").Build())

	metadataStore := new(mocks.MockMetadataStore)
	metadataStore.On("GetByContentID", mock.Anything, "source").
		Return(nil, pkgerrors.NewNotFound("metadata for content source"))
	metadataStore.On("GetByContentID", mock.Anything, "good").
		Return(nil, pkgerrors.NewNotFound("metadata for content good"))
	metadataStore.On("GetByContentID", mock.Anything, "broken").
		Return(nil, pkgerrors.NewInternal("metadata store exploded", nil))

	finder := newTestFinder(contentStore, metadataStore)

	results, err := finder.FindRelated(ctx, "source", DefaultFindOptions())
	require.NoError(t, err)

	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Content.ID)
	}
	assert.Contains(t, ids, "good")
	assert.NotContains(t, ids, "broken")
	metadataStore.AssertExpectations(t)
}

func TestFindRelated_WithoutMetadataSkipsMetadataStore(t *testing.T) {
	contentStore := memory.NewInMemoryContentStore()
	contentStore.Put(fixtures.NewContentBuilder("source").Build())
	contentStore.Put(fixtures.NewContentBuilder("other").Build())

	// A mock with no expectations fails the test on any call
	metadataStore := new(mocks.MockMetadataStore)
	finder := newTestFinder(contentStore, metadataStore)

	_, err := finder.FindRelated(context.Background(), "source", FindOptions{
		Threshold:       0.3,
		Limit:           10,
		IncludeMetadata: false,
	})
	require.NoError(t, err)
	metadataStore.AssertExpectations(t)
}

func TestFindRelated_CandidatePoolFailurePropagates(t *testing.T) {
	contentStore := new(mocks.MockContentStore)
	contentStore.On("GetByID", mock.Anything, "source").
		Return(fixtures.NewContentBuilder("source").Build(), nil)
	contentStore.On("FindCandidates", mock.Anything, "source").
		Return(nil, pkgerrors.NewUnavailable("content store unreachable", nil))

	metadataStore := new(mocks.MockMetadataStore)
	metadataStore.On("GetByContentID", mock.Anything, "source").
		Return(nil, pkgerrors.NewNotFound("metadata for content source"))

	finder := newTestFinder(contentStore, metadataStore)

	_, err := finder.FindRelated(context.Background(), "source", DefaultFindOptions())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestCompareContent(t *testing.T) {
	contentStore, metadataStore := seedPool(t)
	finder := newTestFinder(contentStore, metadataStore)

	result, err := finder.CompareContent(context.Background(), "source", "close-1")
	require.NoError(t, err)
	assert.Equal(t, "source", result.SourceID)
	assert.Equal(t, "close-1", result.TargetID)
	assert.GreaterOrEqual(t, result.Breakdown.Composite, 0.9)
	assert.Equal(t, entities.RelationSameAuthor, result.RelationshipType)

	_, err = finder.CompareContent(context.Background(), "source", "source")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = finder.CompareContent(context.Background(), "source", "")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

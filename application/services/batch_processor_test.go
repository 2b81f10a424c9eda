package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"curator-backend/infrastructure/persistence/memory"
	pkgerrors "curator-backend/pkg/errors"
	"curator-backend/tests/fixtures"
)

func newTestBatchProcessor(t *testing.T) (*BatchProcessor, *memory.InMemoryContentStore, *memory.InMemoryMetadataStore) {
	t.Helper()
	contentStore, metadataStore := seedPool(t)
	finder := newTestFinder(contentStore, metadataStore)
	return NewBatchProcessor(finder, metadataStore, zap.NewNop(), nil), contentStore, metadataStore
}

func TestBatchProcess_Completeness(t *testing.T) {
	processor, _, _ := newTestBatchProcessor(t)

	ids := []string{"source", "close-1", "close-2", "distant-1"}
	result, err := processor.Process(context.Background(), ids, DefaultBatchOptions())
	require.NoError(t, err)

	assert.Equal(t, len(ids), result.Processed+result.Failed)
	assert.Len(t, result.Errors, result.Failed)
	assert.Equal(t, 0, result.Failed)
	assert.NotEmpty(t, result.RunID)
}

func TestBatchProcess_PerItemFailureIsolated(t *testing.T) {
	processor, _, _ := newTestBatchProcessor(t)

	// "ghost" does not exist; its failure must not abort the rest
	result, err := processor.Process(context.Background(), []string{"ghost", "source"}, DefaultBatchOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "ghost", result.Errors[0].ContentID)
	assert.NotEmpty(t, result.Errors[0].Error)
}

func TestBatchProcess_EmptyInput(t *testing.T) {
	processor, _, _ := newTestBatchProcessor(t)

	result, err := processor.Process(context.Background(), nil, DefaultBatchOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
}

func TestBatchProcess_PersistsRelatedLinks(t *testing.T) {
	processor, _, metadataStore := newTestBatchProcessor(t)

	_, err := processor.Process(context.Background(), []string{"source"}, DefaultBatchOptions())
	require.NoError(t, err)

	record, err := metadataStore.GetByContentID(context.Background(), "source")
	require.NoError(t, err)
	require.NotEmpty(t, record.RelatedLinks)

	for _, link := range record.RelatedLinks {
		assert.NotEmpty(t, link.RelatedContentID)
		assert.NotEmpty(t, link.RelationshipType)
		assert.GreaterOrEqual(t, link.Strength, DefaultThreshold)
		assert.LessOrEqual(t, link.Strength, 1.0)
	}

	// Reprocessing is idempotent per (contentId, relatedContentId)
	before := len(record.RelatedLinks)
	_, err = processor.Process(context.Background(), []string{"source"}, DefaultBatchOptions())
	require.NoError(t, err)

	record, err = metadataStore.GetByContentID(context.Background(), "source")
	require.NoError(t, err)
	assert.Len(t, record.RelatedLinks, before)
}

func TestBatchProcess_SkipsPersistenceWhenDisabled(t *testing.T) {
	contentStore := memory.NewInMemoryContentStore()
	contentStore.Put(fixtures.NewContentBuilder("a").Build())
	contentStore.Put(fixtures.NewContentBuilder("b").Build())
	metadataStore := memory.NewInMemoryMetadataStore()

	finder := newTestFinder(contentStore, metadataStore)
	processor := NewBatchProcessor(finder, metadataStore, zap.NewNop(), nil)

	opts := DefaultBatchOptions()
	opts.UpdateMetadata = false
	result, err := processor.Process(context.Background(), []string{"a"}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	_, err = metadataStore.GetByContentID(context.Background(), "a")
	assert.True(t, pkgerrors.IsNotFound(err), "no links should have been written")
}

func TestBatchProcess_SmallBatchSizeCoversAllItems(t *testing.T) {
	processor, _, _ := newTestBatchProcessor(t)

	opts := DefaultBatchOptions()
	opts.BatchSize = 1
	ids := []string{"source", "close-1", "close-2"}

	result, err := processor.Process(context.Background(), ids, opts)
	require.NoError(t, err)
	assert.Equal(t, len(ids), result.Processed+result.Failed)
}

func TestBatchProcess_InvalidOptions(t *testing.T) {
	processor, _, _ := newTestBatchProcessor(t)

	opts := DefaultBatchOptions()
	opts.Threshold = 2.0
	_, err := processor.Process(context.Background(), []string{"source"}, opts)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUpdateRelated(t *testing.T) {
	processor, _, metadataStore := newTestBatchProcessor(t)

	err := processor.UpdateRelated(context.Background(), "source", DefaultBatchOptions())
	require.NoError(t, err)

	record, err := metadataStore.GetByContentID(context.Background(), "source")
	require.NoError(t, err)
	assert.NotEmpty(t, record.RelatedLinks)

	err = processor.UpdateRelated(context.Background(), "", DefaultBatchOptions())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	err = processor.UpdateRelated(context.Background(), "ghost", DefaultBatchOptions())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

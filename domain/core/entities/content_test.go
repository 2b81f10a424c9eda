package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentItem_PrimaryAuthor(t *testing.T) {
	tests := []struct {
		name     string
		item     ContentItem
		expected string
	}{
		{
			name:     "single author name",
			item:     ContentItem{Author: "Ada Lovelace"},
			expected: "Ada Lovelace",
		},
		{
			name:     "author list",
			item:     ContentItem{Authors: []Author{{Name: "Grace Hopper"}, {Name: "Ada Lovelace"}}},
			expected: "Grace Hopper",
		},
		{
			name:     "single name wins over list",
			item:     ContentItem{Author: "Ada Lovelace", Authors: []Author{{Name: "Grace Hopper"}}},
			expected: "Ada Lovelace",
		},
		{
			name:     "whitespace-only name falls through to list",
			item:     ContentItem{Author: "   ", Authors: []Author{{Name: "Grace Hopper"}}},
			expected: "Grace Hopper",
		},
		{
			name:     "no author at all",
			item:     ContentItem{},
			expected: "",
		},
		{
			name:     "list with empty names",
			item:     ContentItem{Authors: []Author{{Name: ""}, {Name: "Ada Lovelace"}}},
			expected: "Ada Lovelace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.PrimaryAuthor())
		})
	}
}

func TestNewEnrichedContent_WithMetadata(t *testing.T) {
	published := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	item := &ContentItem{
		ID:          "content-1",
		Title:       "Understanding Transformers",
		Author:      "Ada Lovelace",
		ContentType: ContentTypeArticle,
		TopicTags:   []string{"ai", "nlp"},
		PublishedAt: &published,
		ReadCount:   120,
	}
	meta := &ContentMetadata{
		ContentID:    "content-1",
		Keywords:     []string{"attention", "encoder"},
		Tags:         []string{"deep-learning"},
		QualityScore: 0.8,
	}

	enriched := NewEnrichedContent(item, meta)

	assert.Equal(t, "content-1", enriched.ID)
	assert.Equal(t, "Ada Lovelace", enriched.Author)
	assert.Equal(t, []string{"attention", "encoder"}, enriched.Keywords)
	assert.Equal(t, []string{"deep-learning"}, enriched.Tags)
	assert.Equal(t, 0.8, enriched.QualityScore)
	assert.Equal(t, &published, enriched.PublishedAt)
}

func TestNewEnrichedContent_MissingMetadataDefaults(t *testing.T) {
	item := &ContentItem{ID: "content-2", Title: "No metadata yet"}

	enriched := NewEnrichedContent(item, nil)

	assert.Empty(t, enriched.Keywords)
	assert.NotNil(t, enriched.Keywords)
	assert.Empty(t, enriched.Tags)
	assert.NotNil(t, enriched.Tags)
	assert.Equal(t, DefaultQualityScore, enriched.QualityScore)
}

func TestContentMetadata_UpsertRelatedLink(t *testing.T) {
	meta := &ContentMetadata{ContentID: "content-1"}

	meta.UpsertRelatedLink(RelatedContentLink{RelatedContentID: "content-2", RelationshipType: RelationSimilar, Strength: 0.4})
	meta.UpsertRelatedLink(RelatedContentLink{RelatedContentID: "content-3", RelationshipType: RelationSameAuthor, Strength: 0.9})
	assert.Len(t, meta.RelatedLinks, 2)

	// Overwrite rather than duplicate
	meta.UpsertRelatedLink(RelatedContentLink{RelatedContentID: "content-2", RelationshipType: RelationSimilarTopic, Strength: 0.7})
	assert.Len(t, meta.RelatedLinks, 2)
	assert.Equal(t, RelationSimilarTopic, meta.RelatedLinks[0].RelationshipType)
	assert.Equal(t, 0.7, meta.RelatedLinks[0].Strength)

	// Idempotent on retry
	meta.UpsertRelatedLink(RelatedContentLink{RelatedContentID: "content-2", RelationshipType: RelationSimilarTopic, Strength: 0.7})
	assert.Len(t, meta.RelatedLinks, 2)
}

func TestCustomFields_Merge(t *testing.T) {
	base := CustomFields{"source": "rss", "rank": 1}
	merged := base.Merge(CustomFields{"rank": 2, "lang": "en"})

	assert.Equal(t, 2, merged["rank"])
	assert.Equal(t, "rss", merged["source"])
	assert.Equal(t, "en", merged["lang"])

	var nilFields CustomFields
	result := nilFields.Merge(CustomFields{"a": 1})
	assert.Equal(t, 1, result["a"])
}

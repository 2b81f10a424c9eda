// Package fixtures provides fluent builders for test data
package fixtures

import (
	"fmt"
	"time"

	"curator-backend/domain/core/entities"
)

// ContentBuilder builds ContentItem fixtures with sensible defaults
type ContentBuilder struct {
	item entities.ContentItem
}

// NewContentBuilder creates a builder for a processed article
func NewContentBuilder(id string) *ContentBuilder {
	published := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &ContentBuilder{
		item: entities.ContentItem{
			ID:          id,
			Title:       fmt.Sprintf("Content %s", id),
			Author:      "Ada Lovelace",
			ContentType: entities.ContentTypeArticle,
			TopicTags:   []string{"ai", "nlp"},
			PublishedAt: &published,
			Summary:     "Transformer architectures replace recurrence with attention",
			Processed:   true,
		},
	}
}

// WithTitle sets the title
func (b *ContentBuilder) WithTitle(title string) *ContentBuilder {
	b.item.Title = title
	return b
}

// WithAuthor sets the single-name author representation
func (b *ContentBuilder) WithAuthor(name string) *ContentBuilder {
	b.item.Author = name
	b.item.Authors = nil
	return b
}

// WithAuthorList sets the list-of-records author representation
func (b *ContentBuilder) WithAuthorList(names ...string) *ContentBuilder {
	b.item.Author = ""
	b.item.Authors = make([]entities.Author, 0, len(names))
	for _, name := range names {
		b.item.Authors = append(b.item.Authors, entities.Author{Name: name})
	}
	return b
}

// WithContentType sets the content type
func (b *ContentBuilder) WithContentType(ct entities.ContentType) *ContentBuilder {
	b.item.ContentType = ct
	return b
}

// WithTopics sets the topic tags
func (b *ContentBuilder) WithTopics(topics ...string) *ContentBuilder {
	b.item.TopicTags = topics
	return b
}

// WithCategories sets the category tags
func (b *ContentBuilder) WithCategories(categories ...string) *ContentBuilder {
	b.item.CategoryTags = categories
	return b
}

// WithPublishedAt sets the publish timestamp
func (b *ContentBuilder) WithPublishedAt(t time.Time) *ContentBuilder {
	b.item.PublishedAt = &t
	return b
}

// Unpublished clears the publish timestamp
func (b *ContentBuilder) Unpublished() *ContentBuilder {
	b.item.PublishedAt = nil
	return b
}

// WithSummary sets the summary text
func (b *ContentBuilder) WithSummary(summary string) *ContentBuilder {
	b.item.Summary = summary
	return b
}

// WithInsights sets the key-insight strings
func (b *ContentBuilder) WithInsights(insights ...string) *ContentBuilder {
	b.item.KeyInsights = insights
	return b
}

// WithEngagement sets the engagement counters
func (b *ContentBuilder) WithEngagement(reads, saves, shares int) *ContentBuilder {
	b.item.ReadCount = reads
	b.item.SaveCount = saves
	b.item.ShareCount = shares
	return b
}

// Unprocessed marks the item ineligible as a discovery candidate
func (b *ContentBuilder) Unprocessed() *ContentBuilder {
	b.item.Processed = false
	return b
}

// Build returns the constructed item
func (b *ContentBuilder) Build() *entities.ContentItem {
	item := b.item
	return &item
}

// MetadataBuilder builds ContentMetadata fixtures
type MetadataBuilder struct {
	record entities.ContentMetadata
}

// NewMetadataBuilder creates a builder for a content id
func NewMetadataBuilder(contentID string) *MetadataBuilder {
	return &MetadataBuilder{
		record: entities.ContentMetadata{
			ContentID:    contentID,
			Keywords:     []string{},
			Tags:         []string{},
			QualityScore: 0.7,
		},
	}
}

// WithKeywords sets the keyword list
func (b *MetadataBuilder) WithKeywords(keywords ...string) *MetadataBuilder {
	b.record.Keywords = keywords
	return b
}

// WithTags sets the tag list
func (b *MetadataBuilder) WithTags(tags ...string) *MetadataBuilder {
	b.record.Tags = tags
	return b
}

// WithQuality sets the quality score
func (b *MetadataBuilder) WithQuality(score float64) *MetadataBuilder {
	b.record.QualityScore = score
	return b
}

// Build returns the constructed record
func (b *MetadataBuilder) Build() *entities.ContentMetadata {
	record := b.record
	record.RelatedLinks = append([]entities.RelatedContentLink(nil), b.record.RelatedLinks...)
	return &record
}

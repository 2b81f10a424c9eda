package entities

import (
	"strings"
	"time"
)

// ContentType categorizes a piece of content
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypePaper   ContentType = "paper"
	ContentTypePodcast ContentType = "podcast"
	ContentTypeVideo   ContentType = "video"
	ContentTypeSocial  ContentType = "social"
)

// Author identifies a content author by name
type Author struct {
	Name string `json:"name"`
}

// CustomFields holds free-form per-item properties
type CustomFields map[string]interface{}

// Merge applies the other map on top of this one, last write wins per key
func (f CustomFields) Merge(other CustomFields) CustomFields {
	if f == nil {
		f = make(CustomFields, len(other))
	}
	for k, v := range other {
		f[k] = v
	}
	return f
}

// ContentItem is a read-only record owned by the content store.
// Author data comes in two shapes upstream: a single name or a list
// of Author records. PrimaryAuthor resolves both once so scoring
// never has to.
type ContentItem struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Author       string       `json:"author,omitempty"`
	Authors      []Author     `json:"authors,omitempty"`
	ContentType  ContentType  `json:"content_type"`
	TopicTags    []string     `json:"topic_tags"`
	CategoryTags []string     `json:"category_tags"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
	Summary      string       `json:"summary"`
	KeyInsights  []string     `json:"key_insights"`
	ReadCount    int          `json:"read_count"`
	SaveCount    int          `json:"save_count"`
	ShareCount   int          `json:"share_count"`
	Processed    bool         `json:"processed"`
	Custom       CustomFields `json:"custom,omitempty"`
}

// PrimaryAuthor resolves the author name regardless of which
// representation the record carries. Returns "" when no author exists.
func (c *ContentItem) PrimaryAuthor() string {
	if name := strings.TrimSpace(c.Author); name != "" {
		return name
	}
	for _, a := range c.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			return name
		}
	}
	return ""
}

// RelatedContentLink records one discovered relationship on a metadata record
type RelatedContentLink struct {
	RelatedContentID string           `json:"related_content_id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	Strength         float64          `json:"strength"`
}

// ContentMetadata is the read/write record owned by the metadata store
type ContentMetadata struct {
	ContentID    string               `json:"content_id"`
	Keywords     []string             `json:"keywords"`
	Tags         []string             `json:"tags"`
	QualityScore float64              `json:"quality_score"`
	RelatedLinks []RelatedContentLink `json:"related_links"`
}

// DefaultQualityScore is used when no metadata record exists for an item
const DefaultQualityScore = 0.5

// EnrichedContent is the normalized union of a ContentItem and its
// metadata record. It is built once at the enrichment boundary and is
// the only shape the scoring services operate on; it is never persisted.
type EnrichedContent struct {
	ID           string
	Title        string
	Author       string
	ContentType  ContentType
	TopicTags    []string
	CategoryTags []string
	PublishedAt  *time.Time
	Summary      string
	KeyInsights  []string
	ReadCount    int
	SaveCount    int
	ShareCount   int
	Keywords     []string
	Tags         []string
	QualityScore float64
}

// NewEnrichedContent merges an item with its metadata record.
// A nil metadata record yields defaulted fields, never an error.
func NewEnrichedContent(item *ContentItem, meta *ContentMetadata) EnrichedContent {
	enriched := EnrichedContent{
		ID:           item.ID,
		Title:        item.Title,
		Author:       item.PrimaryAuthor(),
		ContentType:  item.ContentType,
		TopicTags:    item.TopicTags,
		CategoryTags: item.CategoryTags,
		PublishedAt:  item.PublishedAt,
		Summary:      item.Summary,
		KeyInsights:  item.KeyInsights,
		ReadCount:    item.ReadCount,
		SaveCount:    item.SaveCount,
		ShareCount:   item.ShareCount,
		Keywords:     []string{},
		Tags:         []string{},
		QualityScore: DefaultQualityScore,
	}

	if meta != nil {
		if meta.Keywords != nil {
			enriched.Keywords = meta.Keywords
		}
		if meta.Tags != nil {
			enriched.Tags = meta.Tags
		}
		enriched.QualityScore = meta.QualityScore
	}

	return enriched
}

package services

import (
	"math"
	"strings"

	"curator-backend/domain/core/entities"
)

// SimilarityEngine scores how related two enriched content items are.
// This is a domain service: pure, stateless, safe for concurrent use.
type SimilarityEngine interface {
	// Calculate returns the composite similarity between two items (0.0 to 1.0)
	Calculate(a, b entities.EnrichedContent) float64

	// Breakdown returns the individual sub-scores behind the composite,
	// for diagnostics and pairwise comparison endpoints
	Breakdown(a, b entities.EnrichedContent) SimilarityBreakdown
}

// SimilarityBreakdown exposes each sub-score alongside the composite
type SimilarityBreakdown struct {
	Topic     float64 `json:"topic"`
	Category  float64 `json:"category"`
	Author    float64 `json:"author"`
	Temporal  float64 `json:"temporal"`
	Text      float64 `json:"text"`
	Composite float64 `json:"composite"`
}

// SimilarityWeights control the contribution of each sub-score.
// Weights must sum to 1; topic and text dominate, author and temporal
// are secondary signals.
type SimilarityWeights struct {
	Topic    float64
	Category float64
	Author   float64
	Temporal float64
	Text     float64
}

// SimilarityConfig configures the similarity calculation
type SimilarityConfig struct {
	Weights              SimilarityWeights
	MaxKeywords          int     // Cap on extracted keywords per item
	TemporalHalfLifeDays float64 // Half-life of the publish-date decay curve
}

// DefaultSimilarityConfig returns a balanced default configuration.
// The 100-day half-life puts the temporal score at 0.08 for a one-year gap.
func DefaultSimilarityConfig() *SimilarityConfig {
	return &SimilarityConfig{
		Weights: SimilarityWeights{
			Topic:    0.30,
			Category: 0.20,
			Author:   0.10,
			Temporal: 0.10,
			Text:     0.30,
		},
		MaxKeywords:          50,
		TemporalHalfLifeDays: 100,
	}
}

// DefaultSimilarityEngine provides similarity calculation over enriched content
type DefaultSimilarityEngine struct {
	config       *SimilarityConfig
	textAnalyzer TextAnalyzer
}

// NewDefaultSimilarityEngine creates a new similarity engine
func NewDefaultSimilarityEngine(config *SimilarityConfig, textAnalyzer TextAnalyzer) *DefaultSimilarityEngine {
	if config == nil {
		config = DefaultSimilarityConfig()
	}
	if textAnalyzer == nil {
		textAnalyzer = NewDefaultTextAnalyzer()
	}

	return &DefaultSimilarityEngine{
		config:       config,
		textAnalyzer: textAnalyzer,
	}
}

// Calculate returns the weighted composite similarity, clamped to [0, 1].
// Every sub-score is symmetric, so Calculate(a, b) == Calculate(b, a).
func (se *DefaultSimilarityEngine) Calculate(a, b entities.EnrichedContent) float64 {
	return se.Breakdown(a, b).Composite
}

// Breakdown computes all five sub-scores and the composite
func (se *DefaultSimilarityEngine) Breakdown(a, b entities.EnrichedContent) SimilarityBreakdown {
	breakdown := SimilarityBreakdown{
		Topic:    se.TopicSimilarity(a, b),
		Category: se.CategorySimilarity(a, b),
		Author:   se.AuthorSimilarity(a, b),
		Temporal: se.TemporalSimilarity(a, b),
		Text:     se.TextSimilarity(a, b),
	}

	w := se.config.Weights
	composite := breakdown.Topic*w.Topic +
		breakdown.Category*w.Category +
		breakdown.Author*w.Author +
		breakdown.Temporal*w.Temporal +
		breakdown.Text*w.Text

	breakdown.Composite = clamp01(composite)
	return breakdown
}

// TopicSimilarity is the Jaccard coefficient over case-normalized topic tags
func (se *DefaultSimilarityEngine) TopicSimilarity(a, b entities.EnrichedContent) float64 {
	return jaccard(normalizeTagSet(a.TopicTags), normalizeTagSet(b.TopicTags))
}

// CategorySimilarity is the Jaccard coefficient over case-normalized category tags
func (se *DefaultSimilarityEngine) CategorySimilarity(a, b entities.EnrichedContent) float64 {
	return jaccard(normalizeTagSet(a.CategoryTags), normalizeTagSet(b.CategoryTags))
}

// AuthorSimilarity is 1 when both items resolve to the same non-empty
// author name, 0 otherwise. An item with no author never matches.
func (se *DefaultSimilarityEngine) AuthorSimilarity(a, b entities.EnrichedContent) float64 {
	if a.Author == "" || b.Author == "" {
		return 0.0
	}
	if strings.EqualFold(strings.TrimSpace(a.Author), strings.TrimSpace(b.Author)) {
		return 1.0
	}
	return 0.0
}

// TemporalSimilarity decays exponentially with the publish-date gap.
// A missing date on either side scores a neutral 0.5.
func (se *DefaultSimilarityEngine) TemporalSimilarity(a, b entities.EnrichedContent) float64 {
	if a.PublishedAt == nil || b.PublishedAt == nil {
		return 0.5
	}

	gap := a.PublishedAt.Sub(*b.PublishedAt)
	if gap < 0 {
		gap = -gap
	}
	days := gap.Hours() / 24

	return math.Exp(-days * math.Ln2 / se.config.TemporalHalfLifeDays)
}

// TextSimilarity is the Jaccard coefficient over the combined keyword sets:
// keywords extracted from title, summary and key insights, unioned with the
// explicit keyword and tag fields carried by metadata.
func (se *DefaultSimilarityEngine) TextSimilarity(a, b entities.EnrichedContent) float64 {
	return jaccard(se.keywordSet(a), se.keywordSet(b))
}

// keywordSet builds the full keyword set for one item
func (se *DefaultSimilarityEngine) keywordSet(c entities.EnrichedContent) map[string]bool {
	text := c.Title + " " + c.Summary
	if len(c.KeyInsights) > 0 {
		text += " " + strings.Join(c.KeyInsights, " ")
	}

	set := make(map[string]bool)
	for _, kw := range se.textAnalyzer.ExtractKeywords(text, se.config.MaxKeywords) {
		set[kw] = true
	}
	for _, kw := range c.Keywords {
		if normalized := strings.ToLower(strings.TrimSpace(kw)); normalized != "" {
			set[normalized] = true
		}
	}
	for _, tag := range c.Tags {
		if normalized := strings.ToLower(strings.TrimSpace(tag)); normalized != "" {
			set[normalized] = true
		}
	}

	return set
}

// normalizeTagSet lowercases and trims tags into a set
func normalizeTagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized != "" {
			set[normalized] = true
		}
	}
	return set
}

// jaccard calculates the Jaccard index |A ∩ B| / |A ∪ B|.
// Two empty sets agree vacuously (1); exactly one empty set scores 0.
func jaccard(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	union := make(map[string]bool, len(set1)+len(set2))

	for key := range set1 {
		union[key] = true
		if set2[key] {
			intersection++
		}
	}
	for key := range set2 {
		union[key] = true
	}

	return float64(intersection) / float64(len(union))
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(v, 1.0))
}

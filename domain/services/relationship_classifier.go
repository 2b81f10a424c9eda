package services

import (
	"regexp"
	"strings"

	"curator-backend/domain/core/entities"
)

// RelationshipClassifier assigns a relationship type to a scored content pair.
// Pure domain service: no I/O, safe for concurrent use.
type RelationshipClassifier interface {
	// Classify maps (a, b, composite similarity) to a relationship type
	Classify(a, b entities.EnrichedContent, similarity float64) entities.RelationshipType
}

// ClassifierConfig configures relationship classification thresholds
type ClassifierConfig struct {
	// MinTopicOverlap is the minimum shared-topic count for similar_topic
	MinTopicOverlap int
	// TopicJaccardThreshold is an alternative topic-overlap trigger for similar_topic
	TopicJaccardThreshold float64
	// PrimaryThreshold is the composite score similar_topic additionally requires
	PrimaryThreshold float64
}

// DefaultClassifierConfig returns the default classification thresholds
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		MinTopicOverlap:       2,
		TopicJaccardThreshold: 0.5,
		PrimaryThreshold:      0.3,
	}
}

// versionMarkerPattern matches trailing version/sequence markers on titles:
// "v2", "version 2", "part 2", "(2)" or a bare numeric suffix, with an
// optional separator in front.
var versionMarkerPattern = regexp.MustCompile(`(?i)[\s\-–:,.]*(?:v(?:ersion)?\s*\d+|part\s*\d+|\(\d+\)|#?\d+)\s*$`)

// DefaultRelationshipClassifier classifies pairs using a fixed rule order
type DefaultRelationshipClassifier struct {
	config *ClassifierConfig
}

// NewDefaultRelationshipClassifier creates a new relationship classifier
func NewDefaultRelationshipClassifier(config *ClassifierConfig) *DefaultRelationshipClassifier {
	if config == nil {
		config = DefaultClassifierConfig()
	}
	return &DefaultRelationshipClassifier{config: config}
}

// Classify evaluates the classification rules top to bottom, first match wins:
//  1. same_author: both items have an equal, non-empty resolved author
//  2. update: titles are near-identical apart from a version/sequence marker
//     (authors necessarily differ here, same-author pairs are caught above)
//  3. similar_topic: large topic overlap and composite above the primary threshold
//  4. similar: default for anything else
func (rc *DefaultRelationshipClassifier) Classify(a, b entities.EnrichedContent, similarity float64) entities.RelationshipType {
	if rc.sameAuthor(a, b) {
		return entities.RelationSameAuthor
	}

	if rc.isUpdate(a.Title, b.Title) {
		return entities.RelationUpdate
	}

	if rc.similarTopic(a, b, similarity) {
		return entities.RelationSimilarTopic
	}

	return entities.RelationSimilar
}

func (rc *DefaultRelationshipClassifier) sameAuthor(a, b entities.EnrichedContent) bool {
	if a.Author == "" || b.Author == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Author), strings.TrimSpace(b.Author))
}

// isUpdate reports whether the titles reduce to the same base once a
// trailing version/sequence marker is stripped. Identical raw titles are
// not an update, only titles that differ by the marker alone.
func (rc *DefaultRelationshipClassifier) isUpdate(titleA, titleB string) bool {
	if strings.EqualFold(strings.TrimSpace(titleA), strings.TrimSpace(titleB)) {
		return false
	}

	baseA := normalizeTitleBase(titleA)
	baseB := normalizeTitleBase(titleB)

	return baseA != "" && baseA == baseB
}

func (rc *DefaultRelationshipClassifier) similarTopic(a, b entities.EnrichedContent, similarity float64) bool {
	if similarity < rc.config.PrimaryThreshold {
		return false
	}

	topicsA := normalizeTagSet(a.TopicTags)
	topicsB := normalizeTagSet(b.TopicTags)
	if len(topicsA) == 0 || len(topicsB) == 0 {
		return false
	}

	overlap := 0
	for topic := range topicsA {
		if topicsB[topic] {
			overlap++
		}
	}

	if overlap >= rc.config.MinTopicOverlap {
		return true
	}
	return jaccard(topicsA, topicsB) >= rc.config.TopicJaccardThreshold
}

// normalizeTitleBase lowercases a title and strips a trailing version marker
func normalizeTitleBase(title string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	return strings.TrimSpace(versionMarkerPattern.ReplaceAllString(normalized, ""))
}

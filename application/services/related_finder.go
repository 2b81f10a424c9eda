package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"curator-backend/application/ports"
	"curator-backend/domain/core/entities"
	domainservices "curator-backend/domain/services"
	pkgerrors "curator-backend/pkg/errors"
	"curator-backend/pkg/observability"
)

// defaultEnrichConcurrency bounds parallel metadata lookups per query
const defaultEnrichConcurrency = 8

// RelatedContentResult is one scored, classified discovery result
type RelatedContentResult struct {
	Content          entities.EnrichedContent  `json:"content"`
	Similarity       float64                   `json:"similarity"`
	RelationshipType entities.RelationshipType `json:"relationship_type"`
}

// ComparisonResult is the outcome of a pairwise similarity lookup
type ComparisonResult struct {
	SourceID         string                             `json:"source_id"`
	TargetID         string                             `json:"target_id"`
	Breakdown        domainservices.SimilarityBreakdown `json:"breakdown"`
	RelationshipType entities.RelationshipType          `json:"relationship_type"`
}

// RelatedContentFinder orchestrates related-content discovery: it fetches
// the source and candidate pool, enriches both with metadata, scores
// candidates with the similarity engine and classifies the survivors.
// Read-only; the batch processor owns the only mutation.
type RelatedContentFinder struct {
	contentStore  ports.ContentStore
	metadataStore ports.MetadataStore
	similarity    domainservices.SimilarityEngine
	classifier    domainservices.RelationshipClassifier
	concurrency   int
	logger        *zap.Logger
	metrics       *observability.Collector
}

// NewRelatedContentFinder creates a new finder
func NewRelatedContentFinder(
	contentStore ports.ContentStore,
	metadataStore ports.MetadataStore,
	similarity domainservices.SimilarityEngine,
	classifier domainservices.RelationshipClassifier,
	logger *zap.Logger,
	metrics *observability.Collector,
) *RelatedContentFinder {
	if similarity == nil {
		similarity = domainservices.NewDefaultSimilarityEngine(nil, nil)
	}
	if classifier == nil {
		classifier = domainservices.NewDefaultRelationshipClassifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RelatedContentFinder{
		contentStore:  contentStore,
		metadataStore: metadataStore,
		similarity:    similarity,
		classifier:    classifier,
		concurrency:   defaultEnrichConcurrency,
		logger:        logger,
		metrics:       metrics,
	}
}

// FindRelated discovers content related to the source item.
//
// The source lookup is fatal on NOT_FOUND; a candidate that fails to
// enrich is dropped and counted, never a hard failure. Results are
// filtered to similarity >= threshold, sorted descending (ties broken
// by candidate id for determinism) and truncated to the limit.
func (f *RelatedContentFinder) FindRelated(
	ctx context.Context,
	sourceID string,
	opts FindOptions,
) ([]RelatedContentResult, error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "finder.FindRelated",
		attribute.String("content.id", sourceID),
		attribute.Float64("threshold", opts.Threshold),
		attribute.Int("limit", opts.Limit),
	)

	results, err := f.findRelated(ctx, sourceID, opts)

	observability.EndSpan(span, err)
	if f.metrics != nil {
		f.metrics.ObserveQuery("find_related", time.Since(started), err)
		if err == nil {
			f.metrics.ResultsReturned.Observe(float64(len(results)))
		}
	}
	return results, err
}

func (f *RelatedContentFinder) findRelated(
	ctx context.Context,
	sourceID string,
	opts FindOptions,
) ([]RelatedContentResult, error) {
	if sourceID == "" {
		return nil, pkgerrors.NewValidation("source content id is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sourceItem, err := f.contentStore.GetByID(ctx, sourceID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, fmt.Sprintf("fetch source content %s", sourceID))
	}

	source, err := f.enrich(ctx, sourceItem, opts.IncludeMetadata)
	if err != nil {
		return nil, pkgerrors.Wrap(err, fmt.Sprintf("enrich source content %s", sourceID))
	}

	candidates, err := f.contentStore.FindCandidates(ctx, sourceID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetch candidate pool")
	}

	scored := f.scoreCandidates(ctx, source, candidates, opts)

	// Stable sort descending by similarity, ties broken by candidate id
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Content.ID < scored[j].Content.ID
	})

	if len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}

	for i := range scored {
		scored[i].RelationshipType = f.classifier.Classify(source, scored[i].Content, scored[i].Similarity)
	}

	f.logger.Debug("related content discovered",
		zap.String("source_id", sourceID),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(scored)),
		zap.Float64("threshold", opts.Threshold),
	)

	return scored, nil
}

// scoreCandidates enriches and scores the candidate pool concurrently.
// Each metadata lookup is independent and read-only, so enrichment fans
// out on a bounded errgroup; a failing candidate leaves a nil slot.
func (f *RelatedContentFinder) scoreCandidates(
	ctx context.Context,
	source entities.EnrichedContent,
	candidates []*entities.ContentItem,
	opts FindOptions,
) []RelatedContentResult {
	slots := make([]*RelatedContentResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, candidate := range candidates {
		i, candidate := i, candidate
		if candidate == nil || candidate.ID == source.ID {
			continue
		}
		g.Go(func() error {
			enriched, err := f.enrich(gctx, candidate, opts.IncludeMetadata)
			if err != nil {
				// Isolated: a candidate that fails to enrich is dropped,
				// it is background noise for a discovery feature
				f.logger.Warn("dropping candidate, enrichment failed",
					zap.String("candidate_id", candidate.ID),
					zap.Error(err),
				)
				if f.metrics != nil {
					f.metrics.EnrichFailures.Inc()
				}
				return nil
			}

			similarity := f.similarity.Calculate(source, enriched)
			if similarity < opts.Threshold {
				return nil
			}

			slots[i] = &RelatedContentResult{
				Content:    enriched,
				Similarity: similarity,
			}
			return nil
		})
	}

	// Goroutines never return errors; Wait just synchronizes
	_ = g.Wait()

	results := make([]RelatedContentResult, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}

// GetEnriched fetches a single item merged with its metadata record
func (f *RelatedContentFinder) GetEnriched(ctx context.Context, id string) (entities.EnrichedContent, error) {
	item, err := f.contentStore.GetByID(ctx, id)
	if err != nil {
		return entities.EnrichedContent{}, pkgerrors.Wrap(err, fmt.Sprintf("fetch content %s", id))
	}
	return f.enrich(ctx, item, true)
}

// CompareContent performs a pairwise similarity lookup between two items,
// returning the full sub-score breakdown and the relationship type
func (f *RelatedContentFinder) CompareContent(ctx context.Context, idA, idB string) (*ComparisonResult, error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "finder.CompareContent",
		attribute.String("content.source_id", idA),
		attribute.String("content.target_id", idB),
	)

	result, err := f.compareContent(ctx, idA, idB)

	observability.EndSpan(span, err)
	if f.metrics != nil {
		f.metrics.ObserveQuery("compare", time.Since(started), err)
	}
	return result, err
}

func (f *RelatedContentFinder) compareContent(ctx context.Context, idA, idB string) (*ComparisonResult, error) {
	if idA == "" || idB == "" {
		return nil, pkgerrors.NewValidation("both content ids are required")
	}
	if idA == idB {
		return nil, pkgerrors.NewValidation("cannot compare a content item with itself")
	}

	a, err := f.GetEnriched(ctx, idA)
	if err != nil {
		return nil, err
	}
	b, err := f.GetEnriched(ctx, idB)
	if err != nil {
		return nil, err
	}

	breakdown := f.similarity.Breakdown(a, b)

	return &ComparisonResult{
		SourceID:         idA,
		TargetID:         idB,
		Breakdown:        breakdown,
		RelationshipType: f.classifier.Classify(a, b, breakdown.Composite),
	}, nil
}

// enrich merges an item with its metadata record. A missing record means
// defaulted fields, never an error; any other store failure propagates.
func (f *RelatedContentFinder) enrich(
	ctx context.Context,
	item *entities.ContentItem,
	includeMetadata bool,
) (entities.EnrichedContent, error) {
	if !includeMetadata {
		return entities.NewEnrichedContent(item, nil), nil
	}

	meta, err := f.metadataStore.GetByContentID(ctx, item.ID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return entities.NewEnrichedContent(item, nil), nil
		}
		return entities.EnrichedContent{}, err
	}

	return entities.NewEnrichedContent(item, meta), nil
}

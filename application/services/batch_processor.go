package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"curator-backend/application/ports"
	"curator-backend/domain/core/entities"
	pkgerrors "curator-backend/pkg/errors"
	"curator-backend/pkg/observability"
)

// BatchItemError records one failing content id
type BatchItemError struct {
	ContentID string `json:"content_id"`
	Error     string `json:"error"`
}

// BatchResult summarizes a batch run. Processed + Failed always equals
// the number of input ids, and Errors carries one entry per failing id.
type BatchResult struct {
	RunID     string           `json:"run_id"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Errors    []BatchItemError `json:"errors"`
}

// BatchProcessor drives related-content discovery over many ids with
// per-item failure isolation, optionally persisting discovered links
// back to the metadata store
type BatchProcessor struct {
	finder        *RelatedContentFinder
	metadataStore ports.MetadataStore
	logger        *zap.Logger
	metrics       *observability.Collector
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(
	finder *RelatedContentFinder,
	metadataStore ports.MetadataStore,
	logger *zap.Logger,
	metrics *observability.Collector,
) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BatchProcessor{
		finder:        finder,
		metadataStore: metadataStore,
		logger:        logger,
		metrics:       metrics,
	}
}

// Process runs relationship discovery for every id in the list.
//
// Ids are processed in chunks of BatchSize; items within a chunk run
// concurrently, chunking is a throughput control rather than a
// correctness requirement. One id's failure increments Failed and
// appends an error entry but never aborts the remaining ids.
func (p *BatchProcessor) Process(
	ctx context.Context,
	contentIDs []string,
	opts BatchOptions,
) (*BatchResult, error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "batch.Process",
		attribute.Int("content.count", len(contentIDs)),
		attribute.Int("batch_size", opts.BatchSize),
	)

	result, err := p.process(ctx, contentIDs, opts)

	observability.EndSpan(span, err)
	if p.metrics != nil {
		p.metrics.BatchDuration.Observe(time.Since(started).Seconds())
	}
	return result, err
}

func (p *BatchProcessor) process(
	ctx context.Context,
	contentIDs []string,
	opts BatchOptions,
) (*BatchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &BatchResult{
		RunID:  uuid.NewString(),
		Errors: []BatchItemError{},
	}

	p.logger.Info("batch processing started",
		zap.String("run_id", result.RunID),
		zap.Int("items", len(contentIDs)),
		zap.Int("batch_size", opts.BatchSize),
		zap.Bool("update_metadata", opts.UpdateMetadata),
	)

	var mu sync.Mutex

	for start := 0; start < len(contentIDs); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(contentIDs) {
			end = len(contentIDs)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, id := range contentIDs[start:end] {
			id := id
			g.Go(func() error {
				err := p.processOne(gctx, id, opts)

				mu.Lock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, BatchItemError{
						ContentID: id,
						Error:     err.Error(),
					})
				} else {
					result.Processed++
				}
				mu.Unlock()

				if p.metrics != nil {
					status := "success"
					if err != nil {
						status = "failure"
					}
					p.metrics.BatchItems.WithLabelValues(status).Inc()
				}

				// Failures are isolated per item
				return nil
			})
		}
		_ = g.Wait()
	}

	p.logger.Info("batch processing finished",
		zap.String("run_id", result.RunID),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// UpdateRelated discovers and persists related links for a single item.
// This is the persistence-enabled variant of a finder call.
func (p *BatchProcessor) UpdateRelated(ctx context.Context, contentID string, opts BatchOptions) error {
	if contentID == "" {
		return pkgerrors.NewValidation("content id is required")
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	opts.UpdateMetadata = true
	return p.processOne(ctx, contentID, opts)
}

// processOne runs discovery for one id and, when requested, upserts the
// discovered links on its metadata record
func (p *BatchProcessor) processOne(ctx context.Context, contentID string, opts BatchOptions) error {
	related, err := p.finder.FindRelated(ctx, contentID, FindOptions{
		Threshold:       opts.Threshold,
		Limit:           opts.Limit,
		IncludeMetadata: true,
	})
	if err != nil {
		return err
	}

	if !opts.UpdateMetadata {
		return nil
	}

	for _, result := range related {
		link := entities.RelatedContentLink{
			RelatedContentID: result.Content.ID,
			RelationshipType: result.RelationshipType,
			Strength:         result.Similarity,
		}
		if err := p.metadataStore.UpsertRelatedLink(ctx, contentID, link); err != nil {
			return pkgerrors.NewItemProcessing("persist related link", err)
		}
	}

	return nil
}

// Package persistence wraps store implementations with resilience
// concerns that apply regardless of the backing engine.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"curator-backend/application/ports"
	"curator-backend/domain/core/entities"
	pkgerrors "curator-backend/pkg/errors"
)

// BreakerConfig tunes the circuit breaker guarding a store
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the given store name
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

func newBreaker(config BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Missing records are answers, not outages
			return err == nil || pkgerrors.IsNotFound(err) || pkgerrors.IsValidation(err)
		},
	})
}

// translateBreakerErr maps breaker rejections onto the UNAVAILABLE type
// so callers see one failure taxonomy regardless of where it tripped
func translateBreakerErr(operation string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewUnavailable(operation+": store circuit open", err)
	}
	return err
}

// ContentStoreBreaker decorates a ContentStore with a circuit breaker
type ContentStoreBreaker struct {
	inner   ports.ContentStore
	breaker *gobreaker.CircuitBreaker
}

var _ ports.ContentStore = (*ContentStoreBreaker)(nil)

// NewContentStoreBreaker wraps a content store with the given breaker config
func NewContentStoreBreaker(inner ports.ContentStore, config BreakerConfig, logger *zap.Logger) *ContentStoreBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentStoreBreaker{
		inner:   inner,
		breaker: newBreaker(config, logger),
	}
}

func (b *ContentStoreBreaker) GetByID(ctx context.Context, id string) (*entities.ContentItem, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.GetByID(ctx, id)
	})
	if err != nil {
		return nil, translateBreakerErr("get content item", err)
	}
	return result.(*entities.ContentItem), nil
}

func (b *ContentStoreBreaker) FindCandidates(ctx context.Context, excludeID string) ([]*entities.ContentItem, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.FindCandidates(ctx, excludeID)
	})
	if err != nil {
		return nil, translateBreakerErr("query candidate pool", err)
	}
	return result.([]*entities.ContentItem), nil
}

// MetadataStoreBreaker decorates a MetadataStore with a circuit breaker
type MetadataStoreBreaker struct {
	inner   ports.MetadataStore
	breaker *gobreaker.CircuitBreaker
}

var _ ports.MetadataStore = (*MetadataStoreBreaker)(nil)

// NewMetadataStoreBreaker wraps a metadata store with the given breaker config
func NewMetadataStoreBreaker(inner ports.MetadataStore, config BreakerConfig, logger *zap.Logger) *MetadataStoreBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataStoreBreaker{
		inner:   inner,
		breaker: newBreaker(config, logger),
	}
}

func (b *MetadataStoreBreaker) GetByContentID(ctx context.Context, contentID string) (*entities.ContentMetadata, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.GetByContentID(ctx, contentID)
	})
	if err != nil {
		return nil, translateBreakerErr("get metadata record", err)
	}
	return result.(*entities.ContentMetadata), nil
}

func (b *MetadataStoreBreaker) UpsertRelatedLink(ctx context.Context, contentID string, link entities.RelatedContentLink) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.inner.UpsertRelatedLink(ctx, contentID, link)
	})
	if err != nil {
		return translateBreakerErr("upsert related link", err)
	}
	return nil
}

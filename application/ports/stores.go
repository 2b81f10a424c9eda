package ports

import (
	"context"

	"curator-backend/domain/core/entities"
)

// ContentStore is the read-only port to the external content store.
// This is a port in hexagonal architecture - the engine doesn't know
// about the implementation.
type ContentStore interface {
	// GetByID retrieves a content item by its ID.
	// Returns a NOT_FOUND error when the id does not resolve.
	GetByID(ctx context.Context, id string) (*entities.ContentItem, error)

	// FindCandidates retrieves the candidate pool for relationship
	// discovery: all processed items excluding the given id.
	FindCandidates(ctx context.Context, excludeID string) ([]*entities.ContentItem, error)
}

// MetadataStore is the port to the external metadata store.
type MetadataStore interface {
	// GetByContentID retrieves the metadata record for a content item.
	// Returns a NOT_FOUND error when no record exists; callers treat
	// that as "use defaults", never as a failure.
	GetByContentID(ctx context.Context, contentID string) (*entities.ContentMetadata, error)

	// UpsertRelatedLink persists one discovered relationship on the
	// item's metadata record. Must be idempotent per
	// (contentID, link.RelatedContentID) so retries are safe.
	UpsertRelatedLink(ctx context.Context, contentID string, link entities.RelatedContentLink) error
}

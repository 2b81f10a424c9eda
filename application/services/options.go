package services

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	pkgerrors "curator-backend/pkg/errors"
)

// validate is shared across option types; validator instances cache
// struct metadata and are safe for concurrent use.
var validate = validator.New()

// Default bounds for the discovery operations
const (
	DefaultThreshold = 0.3
	DefaultLimit     = 10
	DefaultMaxDepth  = 2
	DefaultMaxNodes  = 50
	DefaultBatchSize = 10
)

// FindOptions control a single related-content query
type FindOptions struct {
	// Threshold is the minimum composite similarity a candidate must reach
	Threshold float64 `validate:"gte=0,lte=1"`
	// Limit caps the number of returned results
	Limit int `validate:"gte=0,lte=100"`
	// IncludeMetadata controls whether candidates are enriched from the
	// metadata store; when false, metadata fields take their defaults
	IncludeMetadata bool
}

// DefaultFindOptions returns the documented defaults (threshold 0.3, limit 10)
func DefaultFindOptions() FindOptions {
	return FindOptions{
		Threshold:       DefaultThreshold,
		Limit:           DefaultLimit,
		IncludeMetadata: true,
	}
}

// Validate checks bounds and applies the default where a zero value has one
func (o *FindOptions) Validate() error {
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if err := validate.Struct(o); err != nil {
		return pkgerrors.NewValidation(fmt.Sprintf("invalid find options: %v", err))
	}
	return nil
}

// GraphOptions control graph construction
type GraphOptions struct {
	MaxDepth       int `validate:"gte=0,lte=5"`
	MaxNodes       int `validate:"gte=0,lte=500"`
	IncludeMetrics bool
}

// DefaultGraphOptions returns the documented defaults (depth 2, 50 nodes)
func DefaultGraphOptions() GraphOptions {
	return GraphOptions{
		MaxDepth:       DefaultMaxDepth,
		MaxNodes:       DefaultMaxNodes,
		IncludeMetrics: true,
	}
}

// Validate checks bounds. MaxNodes 0 is legal: the root is still included.
func (o *GraphOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return pkgerrors.NewValidation(fmt.Sprintf("invalid graph options: %v", err))
	}
	return nil
}

// BatchOptions control batch relationship discovery
type BatchOptions struct {
	BatchSize      int     `validate:"gte=0,lte=100"`
	Threshold      float64 `validate:"gte=0,lte=1"`
	Limit          int     `validate:"gte=0,lte=100"`
	UpdateMetadata bool
}

// DefaultBatchOptions returns the documented defaults
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		BatchSize:      DefaultBatchSize,
		Threshold:      DefaultThreshold,
		Limit:          DefaultLimit,
		UpdateMetadata: true,
	}
}

// Validate checks bounds and applies defaults for zero values
func (o *BatchOptions) Validate() error {
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if err := validate.Struct(o); err != nil {
		return pkgerrors.NewValidation(fmt.Sprintf("invalid batch options: %v", err))
	}
	return nil
}

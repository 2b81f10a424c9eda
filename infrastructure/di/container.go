package di

import (
	"go.uber.org/zap"

	"curator-backend/application/ports"
	"curator-backend/application/services"
	domainservices "curator-backend/domain/services"
	"curator-backend/infrastructure/config"
	"curator-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *observability.Collector
	ContentStore  ports.ContentStore
	MetadataStore ports.MetadataStore
	Similarity    domainservices.SimilarityEngine
	Classifier    domainservices.RelationshipClassifier
	Finder        *services.RelatedContentFinder
	GraphBuilder  *services.GraphBuilder
	Batch         *services.BatchProcessor
}

package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"curator-backend/application/ports"
	"curator-backend/application/services"
	domainservices "curator-backend/domain/services"
	"curator-backend/infrastructure/config"
	"curator-backend/infrastructure/persistence"
	"curator-backend/infrastructure/persistence/dynamodb"
	"curator-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, honoring the local
// endpoint override when one is configured
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
}

// ProvideMetrics creates the metrics collector, or nil when disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("curator")
}

// ProvideContentStore creates the DynamoDB content store behind a
// circuit breaker
func ProvideContentStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ContentStore {
	store := dynamodb.NewContentStore(client, cfg.AWS.DynamoDBTable, cfg.AWS.IndexName, logger)
	return persistence.NewContentStoreBreaker(store, persistence.DefaultBreakerConfig("content-store"), logger)
}

// ProvideMetadataStore creates the DynamoDB metadata store behind a
// circuit breaker
func ProvideMetadataStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MetadataStore {
	store := dynamodb.NewMetadataStore(client, cfg.AWS.DynamoDBTable, logger)
	return persistence.NewMetadataStoreBreaker(store, persistence.DefaultBreakerConfig("metadata-store"), logger)
}

// ProvideSimilarityEngine creates the similarity engine with default weights
func ProvideSimilarityEngine() domainservices.SimilarityEngine {
	return domainservices.NewDefaultSimilarityEngine(nil, nil)
}

// ProvideRelationshipClassifier creates the relationship classifier
func ProvideRelationshipClassifier() domainservices.RelationshipClassifier {
	return domainservices.NewDefaultRelationshipClassifier(nil)
}

// ProvideNetworkMetricsCalculator creates the network metrics calculator
func ProvideNetworkMetricsCalculator() *domainservices.NetworkMetricsCalculator {
	return domainservices.NewNetworkMetricsCalculator()
}

// ProvideRelatedContentFinder creates the related-content finder
func ProvideRelatedContentFinder(
	contentStore ports.ContentStore,
	metadataStore ports.MetadataStore,
	similarity domainservices.SimilarityEngine,
	classifier domainservices.RelationshipClassifier,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.RelatedContentFinder {
	return services.NewRelatedContentFinder(contentStore, metadataStore, similarity, classifier, logger, metrics)
}

// ProvideGraphBuilder creates the graph builder
func ProvideGraphBuilder(
	finder *services.RelatedContentFinder,
	metricsCalc *domainservices.NetworkMetricsCalculator,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.GraphBuilder {
	return services.NewGraphBuilder(finder, metricsCalc, logger, metrics)
}

// ProvideBatchProcessor creates the batch processor
func ProvideBatchProcessor(
	finder *services.RelatedContentFinder,
	metadataStore ports.MetadataStore,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.BatchProcessor {
	return services.NewBatchProcessor(finder, metadataStore, logger, metrics)
}

package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"curator-backend/application/ports"
	"curator-backend/domain/core/entities"
	pkgerrors "curator-backend/pkg/errors"
)

// relatedLinkRecord is the storage shape of a discovered relationship
type relatedLinkRecord struct {
	RelatedContentID string  `dynamodbav:"RelatedContentID"`
	RelationshipType string  `dynamodbav:"RelationshipType"`
	Strength         float64 `dynamodbav:"Strength"`
}

// metadataRecord is the storage shape of a metadata row. Related links
// are stored as a map keyed by related content id, which makes the
// upsert path a plain SET on one map entry and keeps retries idempotent.
type metadataRecord struct {
	PK           string                       `dynamodbav:"PK"`
	SK           string                       `dynamodbav:"SK"`
	EntityType   string                       `dynamodbav:"EntityType"`
	ContentID    string                       `dynamodbav:"ContentID"`
	Keywords     []string                     `dynamodbav:"Keywords,omitempty"`
	Tags         []string                     `dynamodbav:"Tags,omitempty"`
	QualityScore float64                      `dynamodbav:"QualityScore"`
	RelatedLinks map[string]relatedLinkRecord `dynamodbav:"RelatedLinks,omitempty"`
	UpdatedAt    string                       `dynamodbav:"UpdatedAt"`
}

func (r *metadataRecord) toEntity() *entities.ContentMetadata {
	meta := &entities.ContentMetadata{
		ContentID:    r.ContentID,
		Keywords:     r.Keywords,
		Tags:         r.Tags,
		QualityScore: r.QualityScore,
	}
	for _, link := range r.RelatedLinks {
		meta.RelatedLinks = append(meta.RelatedLinks, entities.RelatedContentLink{
			RelatedContentID: link.RelatedContentID,
			RelationshipType: entities.RelationshipType(link.RelationshipType),
			Strength:         link.Strength,
		})
	}
	return meta
}

// MetadataStore implements ports.MetadataStore against DynamoDB
type MetadataStore struct {
	client    *awsdynamodb.Client
	tableName string
	logger    *zap.Logger
}

var _ ports.MetadataStore = (*MetadataStore)(nil)

// NewMetadataStore creates a DynamoDB-backed metadata store
func NewMetadataStore(client *awsdynamodb.Client, tableName string, logger *zap.Logger) *MetadataStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// GetByContentID retrieves the metadata record for a content item
func (s *MetadataStore) GetByContentID(ctx context.Context, contentID string) (*entities.ContentMetadata, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: contentPK(contentID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewUnavailable("get metadata record", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFound(fmt.Sprintf("metadata for content %s not found", contentID))
	}

	var record metadataRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, pkgerrors.NewInternal("unmarshal metadata record", err)
	}
	return record.toEntity(), nil
}

// UpsertRelatedLink writes one discovered relationship onto the item's
// metadata row. The row is created on first write; the link map entry
// is keyed by related content id so repeated writes overwrite in place.
func (s *MetadataStore) UpsertRelatedLink(ctx context.Context, contentID string, link entities.RelatedContentLink) error {
	if contentID == "" || link.RelatedContentID == "" {
		return pkgerrors.NewValidation("content id and related content id are required")
	}

	linkValue, err := attributevalue.MarshalMap(relatedLinkRecord{
		RelatedContentID: link.RelatedContentID,
		RelationshipType: string(link.RelationshipType),
		Strength:         link.Strength,
	})
	if err != nil {
		return pkgerrors.NewInternal("marshal related link", err)
	}

	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: contentPK(contentID)},
		"SK": &types.AttributeValueMemberS{Value: skMetadata},
	}

	// Two steps because one update cannot both default the map and set
	// a key inside it. The first write is a no-op once the map exists.
	_, err = s.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              key,
		UpdateExpression: aws.String("SET RelatedLinks = if_not_exists(RelatedLinks, :empty), EntityType = if_not_exists(EntityType, :etype), ContentID = if_not_exists(ContentID, :cid), QualityScore = if_not_exists(QualityScore, :quality)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty":   &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
			":etype":   &types.AttributeValueMemberS{Value: entityTypeMetadata},
			":cid":     &types.AttributeValueMemberS{Value: contentID},
			":quality": &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", entities.DefaultQualityScore)},
		},
	})
	if err != nil {
		return pkgerrors.NewUnavailable("prepare metadata record", err)
	}

	_, err = s.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              key,
		UpdateExpression: aws.String("SET RelatedLinks.#rid = :link, UpdatedAt = :now"),
		ExpressionAttributeNames: map[string]string{
			"#rid": link.RelatedContentID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":link": &types.AttributeValueMemberM{Value: linkValue},
			":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return pkgerrors.NewUnavailable("upsert related link", err)
	}

	s.logger.Debug("related link persisted",
		zap.String("content_id", contentID),
		zap.String("related_content_id", link.RelatedContentID),
		zap.String("relationship_type", string(link.RelationshipType)),
	)
	return nil
}

// Put writes a full metadata record. Used by ingestion tooling and tests.
func (s *MetadataStore) Put(ctx context.Context, meta *entities.ContentMetadata) error {
	if meta == nil || meta.ContentID == "" {
		return pkgerrors.NewValidation("metadata record requires a content id")
	}

	record := metadataRecord{
		PK:           contentPK(meta.ContentID),
		SK:           skMetadata,
		EntityType:   entityTypeMetadata,
		ContentID:    meta.ContentID,
		Keywords:     meta.Keywords,
		Tags:         meta.Tags,
		QualityScore: meta.QualityScore,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if len(meta.RelatedLinks) > 0 {
		record.RelatedLinks = make(map[string]relatedLinkRecord, len(meta.RelatedLinks))
		for _, link := range meta.RelatedLinks {
			record.RelatedLinks[link.RelatedContentID] = relatedLinkRecord{
				RelatedContentID: link.RelatedContentID,
				RelationshipType: string(link.RelationshipType),
				Strength:         link.Strength,
			}
		}
	}

	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return pkgerrors.NewInternal("marshal metadata record", err)
	}
	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewUnavailable("put metadata record", err)
	}
	return nil
}

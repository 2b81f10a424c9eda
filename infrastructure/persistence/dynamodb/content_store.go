// Package dynamodb implements the engine's persistence ports against a
// single DynamoDB table.
//
// Table layout:
//
//	PK                SK          EntityType
//	CONTENT#<id>      ITEM        CONTENT      one row per content item
//	CONTENT#<id>      METADATA    METADATA     one row per metadata record
//
// Content rows also carry GSI1PK=TYPE#CONTENT / GSI1SK=CONTENT#<id> so
// the candidate pool can be read with a single index query instead of a
// table scan.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"curator-backend/application/ports"
	"curator-backend/domain/core/entities"
	pkgerrors "curator-backend/pkg/errors"
)

const (
	entityTypeContent  = "CONTENT"
	entityTypeMetadata = "METADATA"

	skItem     = "ITEM"
	skMetadata = "METADATA"

	contentTypePartition = "TYPE#CONTENT"
)

func contentPK(id string) string {
	return fmt.Sprintf("CONTENT#%s", id)
}

// contentRecord is the storage shape of a content item
type contentRecord struct {
	PK           string                 `dynamodbav:"PK"`
	SK           string                 `dynamodbav:"SK"`
	EntityType   string                 `dynamodbav:"EntityType"`
	GSI1PK       string                 `dynamodbav:"GSI1PK"`
	GSI1SK       string                 `dynamodbav:"GSI1SK"`
	ContentID    string                 `dynamodbav:"ContentID"`
	Title        string                 `dynamodbav:"Title"`
	Author       string                 `dynamodbav:"Author,omitempty"`
	Authors      []string               `dynamodbav:"Authors,omitempty"`
	ContentType  string                 `dynamodbav:"ContentType"`
	TopicTags    []string               `dynamodbav:"TopicTags,omitempty"`
	CategoryTags []string               `dynamodbav:"CategoryTags,omitempty"`
	PublishedAt  string                 `dynamodbav:"PublishedAt,omitempty"`
	Summary      string                 `dynamodbav:"Summary,omitempty"`
	KeyInsights  []string               `dynamodbav:"KeyInsights,omitempty"`
	ReadCount    int                    `dynamodbav:"ReadCount"`
	SaveCount    int                    `dynamodbav:"SaveCount"`
	ShareCount   int                    `dynamodbav:"ShareCount"`
	Processed    bool                   `dynamodbav:"Processed"`
	Custom       map[string]interface{} `dynamodbav:"Custom,omitempty"`
	UpdatedAt    string                 `dynamodbav:"UpdatedAt"`
}

func toContentRecord(item *entities.ContentItem) *contentRecord {
	record := &contentRecord{
		PK:           contentPK(item.ID),
		SK:           skItem,
		EntityType:   entityTypeContent,
		GSI1PK:       contentTypePartition,
		GSI1SK:       contentPK(item.ID),
		ContentID:    item.ID,
		Title:        item.Title,
		Author:       item.Author,
		ContentType:  string(item.ContentType),
		TopicTags:    item.TopicTags,
		CategoryTags: item.CategoryTags,
		Summary:      item.Summary,
		KeyInsights:  item.KeyInsights,
		ReadCount:    item.ReadCount,
		SaveCount:    item.SaveCount,
		ShareCount:   item.ShareCount,
		Processed:    item.Processed,
		Custom:       item.Custom,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, a := range item.Authors {
		record.Authors = append(record.Authors, a.Name)
	}
	if item.PublishedAt != nil {
		record.PublishedAt = item.PublishedAt.Format(time.RFC3339)
	}
	return record
}

func (r *contentRecord) toEntity() *entities.ContentItem {
	item := &entities.ContentItem{
		ID:           r.ContentID,
		Title:        r.Title,
		Author:       r.Author,
		ContentType:  entities.ContentType(r.ContentType),
		TopicTags:    r.TopicTags,
		CategoryTags: r.CategoryTags,
		Summary:      r.Summary,
		KeyInsights:  r.KeyInsights,
		ReadCount:    r.ReadCount,
		SaveCount:    r.SaveCount,
		ShareCount:   r.ShareCount,
		Processed:    r.Processed,
		Custom:       r.Custom,
	}
	for _, name := range r.Authors {
		item.Authors = append(item.Authors, entities.Author{Name: name})
	}
	if r.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
			item.PublishedAt = &t
		}
	}
	return item
}

// ContentStore implements ports.ContentStore against DynamoDB
type ContentStore struct {
	client    *awsdynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

var _ ports.ContentStore = (*ContentStore)(nil)

// NewContentStore creates a DynamoDB-backed content store.
// indexName is the GSI used for candidate pool queries.
func NewContentStore(client *awsdynamodb.Client, tableName, indexName string, logger *zap.Logger) *ContentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// GetByID retrieves a single content item
func (s *ContentStore) GetByID(ctx context.Context, id string) (*entities.ContentItem, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: contentPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skItem},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewUnavailable("get content item", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFound(fmt.Sprintf("content item %s not found", id))
	}

	var record contentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, pkgerrors.NewInternal("unmarshal content item", err)
	}
	return record.toEntity(), nil
}

// FindCandidates queries the candidate pool: every processed item
// except the excluded one. Pages through the index until exhausted.
func (s *ContentStore) FindCandidates(ctx context.Context, excludeID string) ([]*entities.ContentItem, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(contentTypePartition))
	filter := expression.Name("Processed").Equal(expression.Value(true)).
		And(expression.Name("ContentID").NotEqual(expression.Value(excludeID)))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(filter).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternal("build candidate query", err)
	}

	items := []*entities.ContentItem{}
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &awsdynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			IndexName:                 aws.String(s.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewUnavailable("query candidate pool", err)
		}

		for _, raw := range out.Items {
			var record contentRecord
			if err := attributevalue.UnmarshalMap(raw, &record); err != nil {
				s.logger.Warn("skipping malformed content row",
					zap.Error(err),
				)
				continue
			}
			items = append(items, record.toEntity())
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	s.logger.Debug("candidate pool loaded",
		zap.String("exclude_id", excludeID),
		zap.Int("candidates", len(items)),
	)
	return items, nil
}

// Put writes a content item. Used by ingestion tooling and tests.
func (s *ContentStore) Put(ctx context.Context, item *entities.ContentItem) error {
	if item == nil || item.ID == "" {
		return pkgerrors.NewValidation("content item requires an id")
	}

	av, err := attributevalue.MarshalMap(toContentRecord(item))
	if err != nil {
		return pkgerrors.NewInternal("marshal content item", err)
	}
	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewUnavailable("put content item", err)
	}
	return nil
}

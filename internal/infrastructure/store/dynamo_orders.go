package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/orders"
)

// DynamoOrderStore implements orders.Store on DynamoDB. Orders are
// write-once so every item is a single PutItem with a not-exists condition.
// A GSI on user_id serves the per-user listing.
type DynamoOrderStore struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoOrder is the DynamoDB item shape. Items and detail snapshots are
// stored as JSON strings, they are only ever read back whole.
type dynamoOrder struct {
	ID             string `dynamodbav:"id"`
	UserID         string `dynamodbav:"user_id"`
	VendorID       string `dynamodbav:"vendor_id"`
	Items          string `dynamodbav:"items"`
	TotalPrice     int    `dynamodbav:"total_price"`
	ProductDetails string `dynamodbav:"product_details"`
	Marketplace    string `dynamodbav:"marketplace"`
	Status         string `dynamodbav:"status"`
	CreatedAt      string `dynamodbav:"created_at"`
	GSI1PK         string `dynamodbav:"gsi1pk"`
}

// NewDynamoClient builds a DynamoDB client from the ambient AWS config.
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func NewDynamoOrderStore(client *dynamodb.Client, tableName string) *DynamoOrderStore {
	return &DynamoOrderStore{client: client, tableName: tableName}
}

func (s *DynamoOrderStore) Create(ctx context.Context, o *orders.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	detailsJSON, err := json.Marshal(o.ProductDetails)
	if err != nil {
		return fmt.Errorf("marshal product details: %w", err)
	}

	av, err := attributevalue.MarshalMap(dynamoOrder{
		ID:             o.ID,
		UserID:         o.UserID,
		VendorID:       o.VendorID,
		Items:          string(itemsJSON),
		TotalPrice:     o.TotalPrice,
		ProductDetails: string(detailsJSON),
		Marketplace:    string(o.Marketplace),
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339Nano),
		GSI1PK:         "ORDERS", // fixed partition for the list-all index
	})
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

func (s *DynamoOrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if result.Item == nil {
		return nil, orders.ErrOrderNotFound
	}
	return unmarshalOrder(result.Item)
}

func (s *DynamoOrderStore) ListByUser(ctx context.Context, userID string) ([]*orders.Order, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	return unmarshalOrders(result.Items)
}

func (s *DynamoOrderStore) ListAll(ctx context.Context) ([]*orders.Order, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String("gsi1pk-created_at-index"),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "ORDERS"},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("query all orders: %w", err)
	}
	return unmarshalOrders(result.Items)
}

func unmarshalOrders(items []map[string]types.AttributeValue) ([]*orders.Order, error) {
	out := make([]*orders.Order, 0, len(items))
	for _, item := range items {
		o, err := unmarshalOrder(item)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func unmarshalOrder(item map[string]types.AttributeValue) (*orders.Order, error) {
	var d dynamoOrder
	if err := attributevalue.UnmarshalMap(item, &d); err != nil {
		return nil, fmt.Errorf("unmarshal order item: %w", err)
	}

	o := orders.Order{
		ID:          d.ID,
		UserID:      d.UserID,
		VendorID:    d.VendorID,
		TotalPrice:  d.TotalPrice,
		Marketplace: catalog.Marketplace(d.Marketplace),
		Status:      orders.Status(d.Status),
	}
	if err := json.Unmarshal([]byte(d.Items), &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal([]byte(d.ProductDetails), &o.ProductDetails); err != nil {
		return nil, fmt.Errorf("unmarshal product details: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse order timestamp: %w", err)
	}
	o.CreatedAt = createdAt
	return &o, nil
}

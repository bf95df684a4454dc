package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// Store provides paper operations over a single DynamoDB table.
type Store struct {
	client  API
	config  Config
	updates *UpdateBuilder
}

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client:  client,
		config:  config,
		updates: NewUpdateBuilder(MutableFields...),
	}
}

// TableName returns the table the store reads and writes.
func (s *Store) TableName() string {
	return s.config.TableName
}

// List scans the whole table. An empty table yields an empty, non-nil slice.
func (s *Store) List(ctx context.Context) ([]Paper, error) {
	papers := []Paper{}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, unavailable("scan", err)
		}
		for _, raw := range page.Items {
			p, err := s.unmarshalPaper(raw)
			if err != nil {
				return nil, err
			}
			papers = append(papers, p)
		}
	}

	return papers, nil
}

// Get retrieves a paper by its raw paper_id.
// Returns ErrInvalidKey before any backend call if id is not an integer,
// and ErrNotFound when no item exists.
func (s *Store) Get(ctx context.Context, id string) (*Paper, error) {
	paperID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       KeyFor(paperID),
	})
	if err != nil {
		return nil, unavailable("get item", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	p, err := s.unmarshalPaper(result.Item)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create validates in and writes the paper unconditionally. An existing
// paper with the same paper_id is replaced.
func (s *Store) Create(ctx context.Context, in PaperInput) (*Paper, error) {
	p, err := in.Paper()
	if err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshal paper: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return nil, unavailable("put item", err)
	}
	return &p, nil
}

// Update applies the non-empty fields of in to the paper with the given raw
// paper_id. With no qualifying field it returns nil without calling the
// backend. Unless Config.RequireExisting is set, updating a missing key
// succeeds silently.
func (s *Store) Update(ctx context.Context, id string, in PaperUpdate) error {
	paperID, err := ParseID(id)
	if err != nil {
		return err
	}

	attrs, err := in.Attributes()
	if err != nil {
		return err
	}

	expr, err := s.updates.Build(attrs)
	if errors.Is(err, ErrEmptyUpdate) {
		return nil
	}
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       KeyFor(paperID),
		UpdateExpression:          aws.String(expr.Expression),
		ExpressionAttributeNames:  expr.Names,
		ExpressionAttributeValues: expr.Values,
	}
	if s.config.RequireExisting {
		input.ConditionExpression = aws.String("attribute_exists(#pk)")
		input.ExpressionAttributeNames["#pk"] = AttrPaperID
	}

	_, err = s.client.UpdateItem(ctx, input)
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return unavailable("update item", err)
	}
	return nil
}

// Delete removes the paper with the given raw paper_id. An empty id is a
// no-op, and deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	paperID, err := ParseID(id)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       KeyFor(paperID),
	})
	if err != nil {
		return unavailable("delete item", err)
	}
	return nil
}

// unmarshalPaper converts a DynamoDB item to a Paper.
func (s *Store) unmarshalPaper(raw map[string]types.AttributeValue) (Paper, error) {
	var p Paper
	if err := attributevalue.UnmarshalMap(raw, &p); err != nil {
		return Paper{}, fmt.Errorf("unmarshal paper: %w", err)
	}
	return p, nil
}

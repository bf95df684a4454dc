package store_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/paperstore/store"
)

// fakeDynamo is an in-memory, single-table stand-in for the DynamoDB client
// keyed by the paper_id number attribute.
type fakeDynamo struct {
	items    map[string]map[string]types.AttributeValue
	pageSize int
	err      error
	calls    map[string]int
	lastUpd  *dynamodb.UpdateItemInput
}

var _ store.API = (*fakeDynamo)(nil)

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		items: make(map[string]map[string]types.AttributeValue),
		calls: make(map[string]int),
	}
}

func (f *fakeDynamo) totalCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func keyOf(key map[string]types.AttributeValue) (string, error) {
	n, ok := key["paper_id"].(*types.AttributeValueMemberN)
	if !ok {
		return "", fmt.Errorf("fake: key must be a paper_id number, got %v", key)
	}
	return n.Value, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.calls["Scan"]++
	if f.err != nil {
		return nil, f.err
	}

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		last, err := keyOf(in.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(keys, last) + 1
	}

	end := len(keys)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, f.items[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"paper_id": &types.AttributeValueMemberN{Value: keys[end-1]},
		}
	}
	return out, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.calls["GetItem"]++
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: f.items[k]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.calls["PutItem"]++
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyOf(in.Item)
	if err != nil {
		return nil, err
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem understands the "SET #a = :v, ..." form produced by
// store.UpdateBuilder and an optional attribute_exists condition.
func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.calls["UpdateItem"]++
	f.lastUpd = in
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}

	item, exists := f.items[k]
	if in.ConditionExpression != nil && strings.HasPrefix(*in.ConditionExpression, "attribute_exists") && !exists {
		return nil, &types.ConditionalCheckFailedException{Message: stringPtr("The conditional request failed")}
	}
	if !exists {
		item = map[string]types.AttributeValue{"paper_id": in.Key["paper_id"]}
	}

	expr := strings.TrimPrefix(*in.UpdateExpression, "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, errors.New("fake: malformed clause " + clause)
		}
		name, ok := in.ExpressionAttributeNames[parts[0]]
		if !ok {
			return nil, errors.New("fake: unknown name placeholder " + parts[0])
		}
		value, ok := in.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, errors.New("fake: unknown value placeholder " + parts[1])
		}
		item[name] = value
	}
	f.items[k] = item
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.calls["DeleteItem"]++
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func stringPtr(s string) *string { return &s }

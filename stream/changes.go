// Package stream provides a DynamoDB Streams handler that records the
// lifecycle of papers.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/paperstore/store"
)

// ChangeKind classifies a stream record.
type ChangeKind string

const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Removed ChangeKind = "removed"
)

// Change is a decoded paper change.
type Change struct {
	Kind    ChangeKind
	PaperID int64

	// Paper is the item after the change. Nil for Removed, or when the
	// stream view type carries keys only.
	Paper *store.Paper

	// Changed lists the mutable fields whose value differs between the old
	// and new image. Only set for Updated.
	Changed []string
}

// Handler processes DynamoDB stream events from the papers table.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger: logger,
	}
}

// HandleChanges logs every paper change in the batch.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleChanges(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord decodes and logs a single stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	change, err := decodeChange(record)
	if err != nil {
		return err
	}
	if change == nil {
		return nil
	}

	attrs := []any{
		"eventID", record.EventID,
		"paperID", change.PaperID,
	}
	if change.Kind == Updated {
		attrs = append(attrs, "changed", change.Changed)
	}
	if change.Paper != nil {
		attrs = append(attrs, "paperName", change.Paper.PaperName)
	}
	h.logger.InfoContext(ctx, "paper "+string(change.Kind), attrs...)

	return nil
}

// decodeChange converts a stream record into a Change.
// Returns nil for event names it does not understand.
func decodeChange(record events.DynamoDBEventRecord) (*Change, error) {
	var kind ChangeKind
	switch record.EventName {
	case "INSERT":
		kind = Created
	case "MODIFY":
		kind = Updated
	case "REMOVE":
		kind = Removed
	default:
		return nil, nil
	}

	id, ok := getNumberAttr(record.Change.Keys, store.AttrPaperID)
	if !ok {
		return nil, fmt.Errorf("record %s: missing %s key", record.EventID, store.AttrPaperID)
	}
	change := &Change{Kind: kind, PaperID: id}

	if kind != Removed && len(record.Change.NewImage) > 0 {
		var p store.Paper
		if err := attributevalue.UnmarshalMap(ConvertStreamImage(record.Change.NewImage), &p); err != nil {
			return nil, fmt.Errorf("record %s: decode new image: %w", record.EventID, err)
		}
		change.Paper = &p
	}

	if kind == Updated {
		change.Changed = changedFields(record.Change.OldImage, record.Change.NewImage)
	}

	return change, nil
}

// changedFields returns the mutable fields that differ between two images,
// in store.MutableFields order.
func changedFields(oldImage, newImage map[string]events.DynamoDBAttributeValue) []string {
	var changed []string
	for _, field := range store.MutableFields {
		oldV, oldOK := scalarAttr(oldImage, field)
		newV, newOK := scalarAttr(newImage, field)
		if oldOK != newOK || oldV != newV {
			changed = append(changed, field)
		}
	}
	return changed
}

// scalarAttr returns a string or number attribute as text.
func scalarAttr(image map[string]events.DynamoDBAttributeValue, key string) (string, bool) {
	v, ok := image[key]
	if !ok {
		return "", false
	}
	switch v.DataType() {
	case events.DataTypeString:
		return "S:" + v.String(), true
	case events.DataTypeNumber:
		return "N:" + v.Number(), true
	}
	return "", false
}

// getNumberAttr extracts an integer attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) (int64, bool) {
	v, ok := image[key]
	if !ok || v.DataType() != events.DataTypeNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.Number(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ConvertStreamImage converts a DynamoDB stream image to SDK attribute values.
func ConvertStreamImage(image map[string]events.DynamoDBAttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue, len(image))
	for k, v := range image {
		if av := convertAttr(v); av != nil {
			result[k] = av
		}
	}
	return result
}

// ConvertStreamKey converts a DynamoDB stream key to a store.PK.
func ConvertStreamKey(streamKey map[string]events.DynamoDBAttributeValue) store.PK {
	return store.PK(ConvertStreamImage(streamKey))
}

func convertAttr(v events.DynamoDBAttributeValue) types.AttributeValue {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: true}
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(v.List()))
		for _, item := range v.List() {
			if av := convertAttr(item); av != nil {
				list = append(list, av)
			}
		}
		return &types.AttributeValueMemberL{Value: list}
	case events.DataTypeMap:
		return &types.AttributeValueMemberM{Value: ConvertStreamImage(v.Map())}
	}
	return nil
}

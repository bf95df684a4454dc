package store

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UpdateExpression is a DynamoDB SET instruction with its placeholder tables.
type UpdateExpression struct {
	// Expression is the UpdateExpression, e.g. "SET #attr0 = :val0".
	Expression string

	// Names maps #attrN placeholders to attribute names.
	Names map[string]string

	// Values maps :valN placeholders to attribute values.
	Values map[string]types.AttributeValue
}

// UpdateBuilder builds SET expressions over a fixed, ordered set of
// candidate attributes. It holds no mutable state and is safe for
// concurrent use.
type UpdateBuilder struct {
	fields []string
}

// NewUpdateBuilder returns a builder for the given candidate attributes.
// Clause order follows this order, not the order of the input map.
func NewUpdateBuilder(fields ...string) *UpdateBuilder {
	return &UpdateBuilder{fields: append([]string(nil), fields...)}
}

// Fields returns the candidate attributes in clause order.
func (b *UpdateBuilder) Fields() []string {
	return append([]string(nil), b.fields...)
}

// Build returns the SET expression for every candidate present and
// non-empty in values. Attributes outside the candidate set are ignored.
// Returns ErrEmptyUpdate when nothing qualifies.
func (b *UpdateBuilder) Build(values map[string]types.AttributeValue) (*UpdateExpression, error) {
	var setClauses []string
	exprNames := make(map[string]string)
	exprValues := make(map[string]types.AttributeValue)

	i := 0
	for _, field := range b.fields {
		v, ok := values[field]
		if !ok || isEmptyValue(v) {
			continue
		}
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = field
		exprValues[valueKey] = v
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}

	if len(setClauses) == 0 {
		return nil, ErrEmptyUpdate
	}

	return &UpdateExpression{
		Expression: "SET " + strings.Join(setClauses, ", "),
		Names:      exprNames,
		Values:     exprValues,
	}, nil
}

// isEmptyValue reports whether v carries no usable value.
func isEmptyValue(v types.AttributeValue) bool {
	switch av := v.(type) {
	case nil:
		return true
	case *types.AttributeValueMemberNULL:
		return true
	case *types.AttributeValueMemberS:
		return av == nil || av.Value == ""
	case *types.AttributeValueMemberN:
		return av == nil || av.Value == ""
	}
	return false
}

package store

import (
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of a paper item.
const (
	AttrPaperID     = "paper_id"
	AttrPaperName   = "paper_name"
	AttrAuthors     = "authors"
	AttrISBN        = "isbn"
	AttrPageNumber  = "page_number"
	AttrPublishYear = "publish_year"
)

// MutableFields lists the attributes an update may change, in the fixed
// order used for SET clauses. paper_id is the key and never changes.
var MutableFields = []string{
	AttrPaperName,
	AttrAuthors,
	AttrISBN,
	AttrPageNumber,
	AttrPublishYear,
}

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// KeyFor returns the primary key for a paper_id.
func KeyFor(id int64) PK {
	return PK{
		AttrPaperID: &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

// Paper is a stored paper record.
type Paper struct {
	PaperID     int64  `dynamodbav:"paper_id" json:"paper_id"`
	PaperName   string `dynamodbav:"paper_name" json:"paper_name"`
	Authors     string `dynamodbav:"authors" json:"authors"`
	ISBN        string `dynamodbav:"isbn" json:"isbn"`
	PageNumber  int64  `dynamodbav:"page_number" json:"page_number"`
	PublishYear int64  `dynamodbav:"publish_year" json:"publish_year"`
}

// GetKey returns the primary key for this paper.
func (p Paper) GetKey() PK {
	return KeyFor(p.PaperID)
}

// PaperInput is the raw form submission for creating a paper.
// Every field is required.
type PaperInput struct {
	PaperID     string `form:"paper_id"`
	PaperName   string `form:"paper_name"`
	Authors     string `form:"authors"`
	ISBN        string `form:"isbn"`
	PageNumber  string `form:"page_number"`
	PublishYear string `form:"publish_year"`
}

// Paper validates the input and coerces the numeric fields.
//
// A field is missing only when it is the empty string, so "0" is accepted
// for page_number and publish_year.
func (in PaperInput) Paper() (Paper, error) {
	required := []struct {
		name  string
		value string
	}{
		{AttrPaperID, in.PaperID},
		{AttrPaperName, in.PaperName},
		{AttrAuthors, in.Authors},
		{AttrISBN, in.ISBN},
		{AttrPageNumber, in.PageNumber},
		{AttrPublishYear, in.PublishYear},
	}
	for _, f := range required {
		if f.value == "" {
			return Paper{}, &FieldError{Field: f.name, Reason: "is required", Err: ErrValidation}
		}
	}

	id, err := ParseID(in.PaperID)
	if err != nil {
		return Paper{}, err
	}
	pages, err := parseNumber(AttrPageNumber, in.PageNumber)
	if err != nil {
		return Paper{}, err
	}
	year, err := parseNumber(AttrPublishYear, in.PublishYear)
	if err != nil {
		return Paper{}, err
	}

	return Paper{
		PaperID:     id,
		PaperName:   in.PaperName,
		Authors:     in.Authors,
		ISBN:        in.ISBN,
		PageNumber:  pages,
		PublishYear: year,
	}, nil
}

// PaperUpdate is the raw form submission for a partial update.
// Empty fields are left untouched on the stored paper.
type PaperUpdate struct {
	PaperName   string `form:"paper_name"`
	Authors     string `form:"authors"`
	ISBN        string `form:"isbn"`
	PageNumber  string `form:"page_number"`
	PublishYear string `form:"publish_year"`
}

// IsEmpty reports whether no field was supplied.
func (u PaperUpdate) IsEmpty() bool {
	return u == PaperUpdate{}
}

// Attributes returns the supplied fields as attribute values, with numeric
// fields coerced to N.
func (u PaperUpdate) Attributes() (map[string]types.AttributeValue, error) {
	attrs := make(map[string]types.AttributeValue)

	strs := map[string]string{
		AttrPaperName: u.PaperName,
		AttrAuthors:   u.Authors,
		AttrISBN:      u.ISBN,
	}
	for name, v := range strs {
		if v != "" {
			attrs[name] = &types.AttributeValueMemberS{Value: v}
		}
	}

	nums := map[string]string{
		AttrPageNumber:  u.PageNumber,
		AttrPublishYear: u.PublishYear,
	}
	for name, v := range nums {
		if v == "" {
			continue
		}
		n, err := parseNumber(name, v)
		if err != nil {
			return nil, err
		}
		attrs[name] = &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
	}

	return attrs, nil
}

// ParseID parses a raw paper_id, returning a FieldError wrapping
// ErrInvalidKey when it is not an integer.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &FieldError{Field: AttrPaperID, Reason: "must be an integer", Err: ErrInvalidKey}
	}
	return id, nil
}

func parseNumber(field, raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &FieldError{Field: field, Reason: "must be an integer", Err: ErrValidation}
	}
	return n, nil
}

// Package store provides the DynamoDB record access layer for papers.
//
// A [Store] wraps a single table keyed by the numeric paper_id attribute and
// exposes list, get, create, update and delete over untrusted form input. All
// identifier and numeric coercion happens here, so callers pass the raw
// strings they received.
//
// # Configuration
//
// Use [DefaultConfig] and set the table name:
//
//	cfg := store.DefaultConfig()
//	cfg.TableName = "papers"
//	s := store.New(dynamoClient, cfg)
//
// Set RequireExisting to make updates against a missing paper fail with
// [ErrNotFound] instead of silently creating a partial item.
//
// # Partial updates
//
// [UpdateBuilder] turns a sparse set of attribute values into a SET
// expression with #attrN / :valN placeholders, so attribute names never
// collide with DynamoDB reserved words. Fields that are absent or empty are
// left untouched on the stored item.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrValidation] - a required field is missing or malformed
//   - [ErrInvalidKey] - a paper_id could not be parsed as an integer
//   - [ErrNotFound] - no paper with the given paper_id
//   - [ErrStoreUnavailable] - the DynamoDB call failed
//   - [ErrEmptyUpdate] - no field qualified for a partial update
//
// Validation failures are reported as [*FieldError], which unwraps to
// [ErrValidation] or [ErrInvalidKey].
package store

package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding papers.
	// Default: "papers"
	TableName string

	// RequireExisting attaches attribute_exists(paper_id) to updates so that
	// an update against a missing paper fails with ErrNotFound.
	// Default: false (update of a missing key succeeds silently)
	RequireExisting bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TableName: "papers",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "papers"
	}
}

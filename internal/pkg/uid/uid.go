// Package uid generates identifiers: UUID strings for correlation and event
// IDs, snowflake integers for database rows.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}

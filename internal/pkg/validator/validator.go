package validator

// Validator validates a struct using its `validate` tags.
type Validator interface {
	Validate(data any) error
}

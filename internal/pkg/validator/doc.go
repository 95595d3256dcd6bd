// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface; V10Validator implements
// it with go-playground/validator v10 and English messages keyed by the
// field's JSON name.
package validator

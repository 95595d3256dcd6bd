package validator

import (
	"errors"
	"testing"
)

type sample struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Code      string `json:"code" validate:"omitempty,otpcode"`
	OriginKey string `validate:"required"`
	Ignored   string `json:"-" validate:"omitempty,email"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	tests := []struct {
		name       string
		input      sample
		wantFields []string
	}{
		{
			name:  "valid",
			input: sample{Email: "user@example.com", Code: "012345", OriginKey: "10.0.0.1"},
		},
		{
			name:       "missing email and origin",
			input:      sample{},
			wantFields: []string{"email", "origin_key"},
		},
		{
			name:       "bad email",
			input:      sample{Email: "not-an-email", OriginKey: "x"},
			wantFields: []string{"email"},
		},
		{
			name:       "non digit code",
			input:      sample{Email: "user@example.com", Code: "12a456", OriginKey: "x"},
			wantFields: []string{"code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := v.Validate(tt.input)

			// Assert
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want V10ValidationError", err)
			}
			if len(verr) != len(tt.wantFields) {
				t.Fatalf("Validate() fields = %v, want %v", verr, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if verr[f] == "" {
					t.Fatalf("Validate() missing message for %q in %v", f, verr)
				}
			}
		})
	}
}

func TestV10Validator_CustomMessage(t *testing.T) {
	// Arrange
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	// Act
	err = v.Validate(sample{Email: "user@example.com", Code: "abc", OriginKey: "x"})

	// Assert
	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want V10ValidationError", err)
	}
	if got := verr["code"]; got != "code must contain only digits" {
		t.Fatalf("message = %q, want %q", got, "code must contain only digits")
	}
}

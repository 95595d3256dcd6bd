package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_StatusCode(t *testing.T) {
	cause := errors.New("smtp: 421 try later")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"server", NewServer(cause), http.StatusInternalServerError, "Internal server error"},
		{"bad request", NewBusiness("incorrect code", CodeBadRequest), http.StatusBadRequest, "incorrect code"},
		{"too many", NewBusiness("too many requests, try again later", CodeTooManyRequest), http.StatusTooManyRequests, "too many requests, try again later"},
		{"unavailable", NewUnavailable(cause, "failed to send code"), http.StatusServiceUnavailable, "failed to send code"},
		{"invalid input", NewInvalidInput(nil, "invalid email"), http.StatusUnprocessableEntity, "invalid email"},
		{"invalid format", NewInvalidFormat(), http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			var gerr *Error
			ok := errors.As(tt.err, &gerr)

			// Assert
			if !ok {
				t.Fatalf("errors.As(%v) = false", tt.err)
			}
			if gerr.StatusCode() != tt.wantStatus {
				t.Fatalf("StatusCode() = %d, want %d", gerr.StatusCode(), tt.wantStatus)
			}
			if gerr.Msg() != tt.wantMsg {
				t.Fatalf("Msg() = %q, want %q", gerr.Msg(), tt.wantMsg)
			}
		})
	}
}

func TestNewBusinessWrap_KeepsCause(t *testing.T) {
	// Arrange
	sentinel := errors.New("code expired")

	// Act
	err := NewBusinessWrap(sentinel, "code expired", CodeBadRequest)

	// Assert
	if !errors.Is(err, sentinel) {
		t.Fatal("errors.Is(err, sentinel) = false")
	}
}

func TestNewUnavailable_NilCause(t *testing.T) {
	if err := NewUnavailable(nil, "down"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("NewUnavailable(nil) = %v, want wrapping ErrUnavailable", err)
	}
}

package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	// DefaultLength is used when NewNumeric receives a non-positive length.
	DefaultLength = 6
	// MaxLength keeps 10^length well inside what callers can type.
	MaxLength = 18
)

// ErrLengthTooLong is returned when the requested code length exceeds MaxLength.
var ErrLengthTooLong = errors.New("otp: code length too long")

// Generator produces one-time passcodes.
type Generator interface {
	// Generate returns a new code.
	Generate() (string, error)
	// Length returns the number of digits in every generated code.
	Length() int
}

// Numeric generates fixed-length decimal codes.
type Numeric struct {
	length int
	max    *big.Int
	format string
	rand   io.Reader
}

// NewNumeric constructs a Numeric generator backed by crypto/rand.
func NewNumeric(length int) (*Numeric, error) {
	return newNumeric(length, rand.Reader)
}

func newNumeric(length int, r io.Reader) (*Numeric, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if length > MaxLength {
		return nil, ErrLengthTooLong
	}

	return &Numeric{
		length: length,
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
		format: fmt.Sprintf("%%0%dd", length),
		rand:   r,
	}, nil
}

// Generate returns a zero padded code uniform over [0, 10^length).
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.max)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}

	return fmt.Sprintf(n.format, v.Int64()), nil
}

// Length returns the number of digits in every generated code.
func (n *Numeric) Length() int {
	return n.length
}

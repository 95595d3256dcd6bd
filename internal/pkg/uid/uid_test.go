package uid

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUUID_Generate(t *testing.T) {
	// Arrange
	var gen StringID = NewUUID()

	// Act
	a, b := gen.Generate(), gen.Generate()

	// Assert
	if a == b {
		t.Fatalf("Generate() returned duplicate %q", a)
	}
	id, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("uuid.Parse(%q) error = %v", a, err)
	}
	if id.Version() != 7 {
		t.Fatalf("version = %d, want 7", id.Version())
	}
}

func TestSnowflake_Generate(t *testing.T) {
	// Arrange
	gen, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}
	var ids NumberID = gen

	// Act
	prev := ids.Generate()
	for range 100 {
		next := ids.Generate()

		// Assert
		if next <= prev {
			t.Fatalf("Generate() = %d after %d, want increasing", next, prev)
		}
		prev = next
	}
}

func TestNewSnowflake_Node(t *testing.T) {
	if _, err := NewSnowflake(-1); err != nil {
		t.Fatalf("NewSnowflake(-1) error = %v", err)
	}
	if _, err := NewSnowflake(4096); err == nil {
		t.Fatal("NewSnowflake(4096) error = nil, want error")
	}
}

func TestUUID_GenerateFallback(t *testing.T) {
	// Arrange
	gen := &UUID{next: func() (uuid.UUID, error) { return uuid.Nil, errors.New("clock") }}

	// Act
	id, err := uuid.Parse(gen.Generate())

	// Assert
	if err != nil {
		t.Fatalf("uuid.Parse() error = %v", err)
	}
	if id.Version() != 4 {
		t.Fatalf("version = %d, want 4", id.Version())
	}
}

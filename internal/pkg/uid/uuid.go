package uid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings, falling back to random v4
// when the v7 clock sequence cannot be read.
type UUID struct {
	next func() (uuid.UUID, error)
}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{next: uuid.NewV7}
}

func (u *UUID) Generate() string {
	if id, err := u.next(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

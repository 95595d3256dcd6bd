package hash

// Hash digests secrets and verifies plaintext against a stored digest.
type Hash interface {
	// Hash returns the digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str digests to hashed.
	Verify(hashed, str string) bool
}

// Package hash provides keyed digests for short secrets.
//
// One-time passcodes are never stored in clear text. Callers keep the digest
// returned by Hash and later check user input with Verify, which compares in
// constant time.
package hash

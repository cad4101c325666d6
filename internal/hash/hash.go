// Package hash provides the content-hashing primitives used to compute the
// daemon's config fingerprint.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// StringHash computes the SHA-256 hash of a string, hex-encoded.
func StringHash(input string) string {
	return BytesHash([]byte(input))
}

// BytesHash computes the SHA-256 hash of a byte slice, hex-encoded.
func BytesHash(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

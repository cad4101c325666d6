package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringHash(t *testing.T) {
	hash1 := StringHash("hello")
	hash2 := StringHash("hello")
	hash3 := StringHash("world")

	assert.Equal(t, hash1, hash2, "same input should produce same hash")
	assert.NotEqual(t, hash1, hash3, "different input should produce different hash")
	assert.Len(t, hash1, 64, "SHA-256 hex string should be 64 characters")
}

func TestBytesHash(t *testing.T) {
	hash1 := BytesHash([]byte("hello"))
	hash2 := BytesHash([]byte("hello"))
	hash3 := BytesHash([]byte("world"))

	assert.Equal(t, hash1, hash2, "same input should produce same hash")
	assert.NotEqual(t, hash1, hash3, "different input should produce different hash")
	assert.Len(t, hash1, 64, "SHA-256 hex string should be 64 characters")
}

func TestBytesHash_MatchesStringHash(t *testing.T) {
	assert.Equal(t, StringHash("config"), BytesHash([]byte("config")))
}

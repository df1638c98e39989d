package timings

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hasher performs one-way hashing.
type Hasher interface {
	// Hash returns the hex-encoded digest of plaintext.
	Hash(plaintext []byte) (string, error)
}

// sha256Hasher implements SHA-256 hashing.
type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher.
// The result is a hex-encoded 64-character string.
func SHA256Hasher() Hasher {
	return &sha256Hasher{}
}

func (h *sha256Hasher) Hash(plaintext []byte) (string, error) {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// blake2bHasher implements BLAKE2b-256 hashing.
type blake2bHasher struct{}

// BLAKE2bHasher returns a BLAKE2b-256 hasher, used for report fingerprints.
// The result is a hex-encoded 64-character string.
func BLAKE2bHasher() Hasher {
	return &blake2bHasher{}
}

func (h *blake2bHasher) Hash(plaintext []byte) (string, error) {
	sum := blake2b.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// hashFilter adapts a Hasher to a filter callback.
func hashFilter(h Hasher) Mapper {
	return func(raw any, _ *Context) (any, error) {
		s, ok := scalarString(raw)
		if !ok {
			return raw, nil
		}
		return h.Hash([]byte(s))
	}
}

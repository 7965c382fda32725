// Package cryptox derives and compares PIN digests for the local PIN lock.
//
// The PIN itself is never written to disk: the store keeps a random salt and
// the argon2id digest of the PIN under that salt.
package cryptox

import (
	"crypto/subtle"

	"github.com/healthyindia/labelscan/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the random salt generated per PIN.
	SaltSize = 16
	// DigestSize is the length of the argon2id output.
	DigestSize = 32
)

// DerivePinDigest returns argon2id(pin, salt).
func DerivePinDigest(pin []byte, salt []byte) []byte {
	return argon2.IDKey(pin, salt, 1, 64*1024, 4, DigestSize)
}

// NewSalt returns a fresh random salt of SaltSize bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// DigestMatches reports whether candidate hashes to digest under salt.
// The comparison is constant time.
func DigestMatches(candidate []byte, salt []byte, digest []byte) bool {
	if len(salt) == 0 || len(digest) != DigestSize {
		return false
	}
	got := DerivePinDigest(candidate, salt)
	return subtle.ConstantTimeCompare(got, digest) == 1
}

package models

import (
	"github.com/healthyindia/labelscan/internal/cryptox"
)

// PinLock is the persisted form of the local 4-digit re-entry PIN.
type PinLock struct {
	Salt   []byte `json:"salt"`
	Digest []byte `json:"digest"`
}

// NewPinLock salts and digests pin.
func NewPinLock(pin string) PinLock {
	salt := cryptox.NewSalt()
	return PinLock{Salt: salt, Digest: cryptox.DerivePinDigest([]byte(pin), salt)}
}

// Valid reports whether the record is well formed.
func (p PinLock) Valid() bool {
	return len(p.Salt) > 0 && len(p.Digest) == cryptox.DigestSize
}

// Matches reports whether pin is the PIN this lock was created with.
func (p PinLock) Matches(pin string) bool {
	return cryptox.DigestMatches([]byte(pin), p.Salt, p.Digest)
}

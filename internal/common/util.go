// Package common holds small helpers shared by the client packages.
package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes read from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray zeroes b in place. Used for passwords and PINs read from the
// terminal once they have been handed to the session machine.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

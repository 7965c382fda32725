// Package models defines the client-side session data shared by the session
// machine, the local store and the remote adapters.
package models

import (
	"strings"
	"time"
)

// Guest identities are synthesized locally and never sent to the identity
// provider. They are told apart only by the token prefix.
const (
	GuestTokenPrefix = "guest:"
	GuestName        = "Guest User"
	GuestEmail       = "guest@example.com"
)

// Profile is the user record returned by the identity provider and persisted
// under the "user" key.
type Profile struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Grant is a successful provider response: a session token plus profile.
type Grant struct {
	Token   string
	Profile Profile
}

// Identity is an authenticated (or guest) user owned by the session machine.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	AuthToken string
}

// NewIdentity builds an Identity from a provider grant.
func NewIdentity(g Grant) Identity {
	return Identity{
		UserID:    g.Profile.ID,
		Name:      g.Profile.Name,
		Email:     g.Profile.Email,
		AuthToken: g.Token,
	}
}

// Profile returns the persisted form of the identity's profile.
func (i Identity) Profile() Profile {
	return Profile{ID: i.UserID, Name: i.Name, Email: i.Email}
}

// IsGuest reports whether the identity was created by the guest flow.
func (i Identity) IsGuest() bool {
	return strings.HasPrefix(i.AuthToken, GuestTokenPrefix)
}

// Challenge is a pending phone verification. It lives in memory only.
type Challenge struct {
	ID          string
	PhoneNumber string
	CreatedAt   time.Time
}

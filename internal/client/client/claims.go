package client

import (
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the fields read from backend and Firebase ID tokens.
type tokenClaims struct {
	jwt.RegisteredClaims
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// claimsFromToken decodes the token's claims without verifying the
// signature; the result is used for profile display only. Tokens that are
// not JWTs yield zero claims.
func claimsFromToken(token string) tokenClaims {
	var c tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return tokenClaims{}
	}
	if c.Subject == "" {
		c.Subject = c.UserID
	}
	return c
}

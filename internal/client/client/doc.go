// Package client contains the remote adapters of the label-scanning client.
//
// # Overview
//
// The package provides:
//  1. APIClient, the HTTP JSON client of the backend: email/password login,
//     signup and the photo analysis endpoint.
//  2. FirebasePhone, a client of the Identity Toolkit REST API used for
//     phone number sign-in (send code, verify code).
//  3. Provider, which composes both into a session.IdentityProvider and maps
//     transport failures to the session package's sentinel errors.
//  4. StaticAttestor, a session.Attestor returning a preconfigured reCAPTCHA
//     token (test phone numbers and headless environments).
//
// # Error Handling
//
// Transport failures and 5xx responses surface as ErrUnavailable; 400, 401
// and 403 as ErrUnauthorized; a rejected one-time code as ErrInvalidCode; an
// analysis response carrying {"error": "..."} as ErrAnalysisFailed. Other
// statuses are reported as *StatusError.
//
// All operations accept context.Context and honor cancellation.
package client

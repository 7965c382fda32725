package session

import (
	"errors"
	"fmt"
)

// Failure reasons. Match them with errors.Is; the category of a failure
// (*ValidationError, *AuthError, *StorageError) is available via errors.As.
var (
	// Local validation, rejected before any provider call.
	ErrBadCredentialsFormat = errors.New("malformed credentials")
	ErrBadPhoneFormat       = errors.New("malformed phone number")
	ErrInvalidCodeFormat    = errors.New("verification code must be 6 digits")
	ErrBadPinFormat         = errors.New("pin must be 4 digits")

	// Provider or local PIN rejection.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSignupRejected      = errors.New("signup rejected")
	ErrChallengeSendFailed = errors.New("failed to send verification code")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrWrongPin            = errors.New("wrong pin")
	ErrUnavailable         = errors.New("identity provider unavailable")

	// Machine misuse.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrBusy              = errors.New("another session operation is in progress")
)

// ValidationError reports malformed local input.
type ValidationError struct {
	Field  string
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %v (%s)", e.Field, e.Reason, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// AuthError reports a rejected credential, code or PIN, a failed challenge
// send, or a transport failure talking to the identity provider.
type AuthError struct {
	Op     string
	Reason error
	Cause  error
}

func (e *AuthError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Reason, e.Cause)
}

func (e *AuthError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Cause}
}

// StorageError reports a failed write to the persisted session store. The
// transition that needed the write did not happen.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: session store: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// TransitionError reports an operation invoked from a state that does not
// accept it. It unwraps to ErrInvalidTransition.
type TransitionError struct {
	Op   string
	From Kind
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: not allowed while %s", e.Op, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

package session

import (
	"context"

	"github.com/healthyindia/labelscan/internal/client/models"
)

// IdentityProvider is the remote authentication service. Implementations
// return errors wrapping ErrInvalidCredentials, ErrSignupRejected,
// ErrChallengeSendFailed, ErrInvalidCode or ErrUnavailable.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (models.Grant, error)
	Signup(ctx context.Context, name, email, password string) (models.Grant, error)
	SendPhoneChallenge(ctx context.Context, phoneNumber, attestation string) (challengeID string, err error)
	VerifyChallenge(ctx context.Context, challengeID, code string) (models.Grant, error)
}

// Attestor presents the anti-abuse challenge (e.g. reCAPTCHA) required
// before a verification SMS is sent, and returns its token.
type Attestor interface {
	Attest(ctx context.Context, phoneNumber string) (string, error)
}

// Store is the persisted session store. Loaders return (nil, nil) for absent
// records.
type Store interface {
	LoadIdentity(ctx context.Context) (*models.Identity, error)
	LoadPin(ctx context.Context) (*models.PinLock, error)
	SaveIdentity(ctx context.Context, id models.Identity) error
	SavePin(ctx context.Context, lock models.PinLock) error
	Clear(ctx context.Context) error
}

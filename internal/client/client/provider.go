package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/client/session"
)

// Provider is the session.IdentityProvider backed by the backend API for
// email/password and Firebase for phone sign-in.
type Provider struct {
	api   *APIClient
	phone *FirebasePhone
}

func NewProvider(api *APIClient, phone *FirebasePhone) *Provider {
	return &Provider{api: api, phone: phone}
}

var _ session.IdentityProvider = (*Provider)(nil)

func (p *Provider) Authenticate(ctx context.Context, email, password string) (models.Grant, error) {
	g, err := p.api.Login(ctx, email, password)
	if err != nil {
		return models.Grant{}, mapProviderError(err, session.ErrInvalidCredentials)
	}
	return g, nil
}

func (p *Provider) Signup(ctx context.Context, name, email, password string) (models.Grant, error) {
	g, err := p.api.Signup(ctx, name, email, password)
	if err != nil {
		return models.Grant{}, mapProviderError(err, session.ErrSignupRejected)
	}
	return g, nil
}

func (p *Provider) SendPhoneChallenge(ctx context.Context, phoneNumber, attestation string) (string, error) {
	if p.phone == nil {
		return "", fmt.Errorf("%w: phone sign-in is not configured", session.ErrChallengeSendFailed)
	}
	id, err := p.phone.SendVerificationCode(ctx, phoneNumber, attestation)
	if err != nil {
		return "", mapProviderError(err, session.ErrChallengeSendFailed)
	}
	return id, nil
}

func (p *Provider) VerifyChallenge(ctx context.Context, challengeID, code string) (models.Grant, error) {
	if p.phone == nil {
		return models.Grant{}, fmt.Errorf("%w: phone sign-in is not configured", session.ErrInvalidCode)
	}
	g, err := p.phone.SignIn(ctx, challengeID, code)
	if err != nil {
		return models.Grant{}, mapProviderError(err, session.ErrInvalidCode)
	}
	return g, nil
}

// mapProviderError translates transport failures to session.ErrUnavailable
// and everything else to the operation's rejection reason.
func mapProviderError(err, rejected error) error {
	if errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%w: %w", session.ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %w", rejected, err)
}

// StaticAttestor returns a fixed reCAPTCHA token. Firebase accepts any token
// for test phone numbers.
type StaticAttestor struct {
	Token string
}

var _ session.Attestor = StaticAttestor{}

func (a StaticAttestor) Attest(context.Context, string) (string, error) {
	if a.Token == "" {
		return "", errors.New("no recaptcha token configured")
	}
	return a.Token, nil
}

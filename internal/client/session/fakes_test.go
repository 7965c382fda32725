package session

import (
	"context"
	"errors"
	"sync"

	"github.com/healthyindia/labelscan/internal/client/models"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []string

	grant       models.Grant
	authErr     error
	signupErr   error
	sendErr     error
	verifyErr   error
	challengeID string

	// block, when set, is waited on inside Authenticate.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) Authenticate(_ context.Context, email, _ string) (models.Grant, error) {
	f.record("authenticate:" + email)
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	if f.authErr != nil {
		return models.Grant{}, f.authErr
	}
	return f.grant, nil
}

func (f *fakeProvider) Signup(_ context.Context, _, email, _ string) (models.Grant, error) {
	f.record("signup:" + email)
	if f.signupErr != nil {
		return models.Grant{}, f.signupErr
	}
	return f.grant, nil
}

func (f *fakeProvider) SendPhoneChallenge(_ context.Context, phone, attestation string) (string, error) {
	f.record("send:" + phone + ":" + attestation)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.challengeID, nil
}

func (f *fakeProvider) VerifyChallenge(_ context.Context, challengeID, code string) (models.Grant, error) {
	f.record("verify:" + challengeID + ":" + code)
	if f.verifyErr != nil {
		return models.Grant{}, f.verifyErr
	}
	return f.grant, nil
}

type fakeAttestor struct {
	token string
	err   error
}

func (a fakeAttestor) Attest(context.Context, string) (string, error) {
	return a.token, a.err
}

var errDisk = errors.New("disk full")

// memStore is an in-memory Store with failure injection.
type memStore struct {
	mu       sync.Mutex
	identity *models.Identity
	pin      *models.PinLock

	loadIdentityErr error
	loadPinErr      error
	saveIdentityErr error
	savePinErr      error
	clearErr        error

	writes int
}

func (s *memStore) LoadIdentity(context.Context) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadIdentityErr != nil {
		return nil, s.loadIdentityErr
	}
	if s.identity == nil {
		return nil, nil
	}
	id := *s.identity
	return &id, nil
}

func (s *memStore) LoadPin(context.Context) (*models.PinLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadPinErr != nil {
		return nil, s.loadPinErr
	}
	if s.pin == nil {
		return nil, nil
	}
	p := *s.pin
	return &p, nil
}

func (s *memStore) SaveIdentity(_ context.Context, id models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveIdentityErr != nil {
		return s.saveIdentityErr
	}
	s.writes++
	s.identity = &id
	return nil
}

func (s *memStore) SavePin(_ context.Context, lock models.PinLock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savePinErr != nil {
		return s.savePinErr
	}
	s.writes++
	s.pin = &lock
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.writes++
	s.identity = nil
	s.pin = nil
	return nil
}

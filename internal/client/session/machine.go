// Package session owns the client's identity lifecycle: which of the
// authentication paths completed, whether the local PIN gate has been passed
// in this process, and therefore which screen may be shown.
//
// A Machine processes one operation at a time. Every operation either
// commits a transition (and the store write it needs) or returns a typed
// error and leaves the state as it was.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/logging"
	"github.com/healthyindia/labelscan/internal/validate"
)

// Machine is the session state machine.
type Machine struct {
	// op serializes operations; a second caller gets ErrBusy instead of waiting.
	op sync.Mutex

	mu    sync.RWMutex
	state State
	pin   *models.PinLock
	subs  map[int]func(State)
	next  int

	provider IdentityProvider
	store    Store
	log      logging.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes a Machine.
type Option func(*Machine)

// WithClock replaces time.Now, used to stamp verification challenges.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator replaces the generator of guest identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// New returns a Machine in the Unauthenticated state. Call Restore to load
// the persisted session.
func New(provider IdentityProvider, store Store, log logging.Logger, opts ...Option) *Machine {
	if log == nil {
		log = logging.Nop()
	}
	m := &Machine{
		state:    unauthenticated(),
		subs:     make(map[int]func(State)),
		provider: provider,
		store:    store,
		log:      log.With("component", "session"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Subscribe registers fn to receive every committed state. The returned
// function unregisters it.
func (m *Machine) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Machine) commit(ctx context.Context, op string, next State, pin *models.PinLock) {
	m.mu.Lock()
	from := m.state.Kind
	m.state = next
	m.pin = pin
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.log.Info(ctx, "session transition", "op", op, "from", from.String(), "to", next.Kind.String())
	for _, fn := range subs {
		fn(next.clone())
	}
}

func (m *Machine) begin() (State, *models.PinLock, bool) {
	if !m.op.TryLock() {
		return State{}, nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone(), m.pin, true
}

func (m *Machine) end() { m.op.Unlock() }

func requireKind(op string, cur State, allowed ...Kind) error {
	for _, k := range allowed {
		if cur.Kind == k {
			return nil
		}
	}
	return &TransitionError{Op: op, From: cur.Kind}
}

// Restore rebuilds the state from the store: no identity gives
// Unauthenticated, an identity without PIN lock gives Unlocked, an identity
// with PIN lock gives Locked. An unreadable or malformed identity counts as
// absent. An unreadable or malformed PIN lock gives Unauthenticated, never
// Unlocked. Restore waits for an in-flight operation instead of failing.
func (m *Machine) Restore(ctx context.Context) State {
	m.op.Lock()
	defer m.op.Unlock()

	id, err := m.store.LoadIdentity(ctx)
	if err != nil {
		m.log.Warn(ctx, "stored identity unreadable, treating as absent", "error", err)
		id = nil
	}
	if id == nil {
		m.commit(ctx, "restore", unauthenticated(), nil)
		return m.State()
	}

	lock, err := m.store.LoadPin(ctx)
	if err != nil {
		m.log.Warn(ctx, "stored pin lock unreadable, signing out", "error", err)
		m.commit(ctx, "restore", unauthenticated(), nil)
		return m.State()
	}
	if lock == nil {
		m.commit(ctx, "restore", withIdentity(Unlocked, *id), nil)
	} else {
		m.commit(ctx, "restore", withIdentity(Locked, *id), lock)
	}
	return m.State()
}

// SubmitPassword authenticates with email and password.
func (m *Machine) SubmitPassword(ctx context.Context, email, password string) error {
	const op = "submit_password"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, Unauthenticated); err != nil {
		return err
	}
	if err := validate.Struct(passwordCredential{Email: email, Password: password}); err != nil {
		return &ValidationError{Field: "credentials", Reason: ErrBadCredentialsFormat, Detail: err.Error()}
	}

	grant, err := m.provider.Authenticate(ctx, email, password)
	if err != nil {
		return m.authFailure(ctx, op, ErrInvalidCredentials, err)
	}
	if grant.Profile.Email == "" {
		grant.Profile.Email = email
	}
	return m.commitIdentity(ctx, op, models.NewIdentity(grant))
}

// Signup registers a new account and signs it in.
func (m *Machine) Signup(ctx context.Context, name, email, password string) error {
	const op = "signup"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, Unauthenticated); err != nil {
		return err
	}
	if err := validate.Struct(signupCredential{Name: name, Email: email, Password: password}); err != nil {
		return &ValidationError{Field: "credentials", Reason: ErrBadCredentialsFormat, Detail: err.Error()}
	}

	grant, err := m.provider.Signup(ctx, name, email, password)
	if err != nil {
		return m.authFailure(ctx, op, ErrSignupRejected, err)
	}
	return m.commitIdentity(ctx, op, models.NewIdentity(grant))
}

// ContinueAsGuest creates a local guest identity. It never contacts the
// provider.
func (m *Machine) ContinueAsGuest(ctx context.Context) error {
	const op = "continue_as_guest"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, Unauthenticated); err != nil {
		return err
	}

	id := m.newID()
	return m.commitIdentity(ctx, op, models.Identity{
		UserID:    "guest-" + id,
		Name:      models.GuestName,
		Email:     models.GuestEmail,
		AuthToken: models.GuestTokenPrefix + id,
	})
}

// SubmitPhoneNumber asks the provider to text a verification code. A call
// while a challenge is pending replaces that challenge.
func (m *Machine) SubmitPhoneNumber(ctx context.Context, phoneNumber string, attestor Attestor) error {
	const op = "submit_phone_number"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, Unauthenticated, AwaitingVerification); err != nil {
		return err
	}
	phone := NormalizePhone(phoneNumber)
	if err := validate.Var(phone, "required,e164"); err != nil {
		return &ValidationError{Field: "phone number", Reason: ErrBadPhoneFormat, Detail: err.Error()}
	}
	if attestor == nil {
		return &AuthError{Op: op, Reason: ErrChallengeSendFailed, Cause: errors.New("no attestation verifier")}
	}

	attestation, err := attestor.Attest(ctx, phone)
	if err != nil {
		m.log.Warn(ctx, "attestation failed", "error", err)
		return &AuthError{Op: op, Reason: ErrChallengeSendFailed, Cause: err}
	}

	challengeID, err := m.provider.SendPhoneChallenge(ctx, phone, attestation)
	if err != nil {
		m.log.Warn(ctx, "verification code not sent", "error", err)
		return &AuthError{Op: op, Reason: ErrChallengeSendFailed, Cause: err}
	}

	m.commit(ctx, op, awaitingVerification(models.Challenge{
		ID:          challengeID,
		PhoneNumber: phone,
		CreatedAt:   m.now(),
	}), nil)
	return nil
}

// SubmitVerificationCode completes the phone flow with the 6-digit code.
// A rejected code keeps the challenge so the user can retry.
func (m *Machine) SubmitVerificationCode(ctx context.Context, code string) error {
	const op = "submit_verification_code"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, AwaitingVerification); err != nil {
		return err
	}
	if err := validate.Var(code, "len=6,digits"); err != nil {
		return &ValidationError{Field: "verification code", Reason: ErrInvalidCodeFormat, Detail: err.Error()}
	}

	ch := cur.Challenge
	grant, err := m.provider.VerifyChallenge(ctx, ch.ID, code)
	if err != nil {
		return m.authFailure(ctx, op, ErrInvalidCode, err)
	}
	if grant.Profile.Name == "" {
		grant.Profile.Name = ch.PhoneNumber
	}
	return m.commitIdentity(ctx, op, models.NewIdentity(grant))
}

// CancelVerification abandons the pending phone challenge.
func (m *Machine) CancelVerification(ctx context.Context) error {
	const op = "cancel_verification"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, AwaitingVerification); err != nil {
		return err
	}
	m.commit(ctx, op, unauthenticated(), nil)
	return nil
}

// SetPin stores the 4-digit PIN after a fresh authentication and unlocks.
func (m *Machine) SetPin(ctx context.Context, pin string) error {
	const op = "set_pin"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, AuthenticatedNoPin); err != nil {
		return err
	}
	if err := validate.Var(pin, "len=4,digits"); err != nil {
		return &ValidationError{Field: "pin", Reason: ErrBadPinFormat, Detail: err.Error()}
	}

	lock := models.NewPinLock(pin)
	if err := m.store.SavePin(ctx, lock); err != nil {
		m.log.Error(ctx, "pin lock not saved", "error", err)
		return &StorageError{Op: op, Err: err}
	}
	m.commit(ctx, op, withIdentity(Unlocked, *cur.Identity), &lock)
	return nil
}

// SubmitPin unlocks a restored session. There is no attempt limit. Input
// that is not exactly 4 digits fails with a ValidationError, not ErrWrongPin.
func (m *Machine) SubmitPin(ctx context.Context, pin string) error {
	const op = "submit_pin"
	cur, lock, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, Locked); err != nil {
		return err
	}
	if err := validate.Var(pin, "len=4,digits"); err != nil {
		return &ValidationError{Field: "pin", Reason: ErrBadPinFormat, Detail: err.Error()}
	}
	if lock == nil || !lock.Matches(pin) {
		m.log.Warn(ctx, "wrong pin entered")
		return &AuthError{Op: op, Reason: ErrWrongPin}
	}
	m.commit(ctx, op, withIdentity(Unlocked, *cur.Identity), lock)
	return nil
}

// Logout wipes identity, token and PIN lock from the store.
func (m *Machine) Logout(ctx context.Context) error {
	const op = "logout"
	cur, _, ok := m.begin()
	if !ok {
		return ErrBusy
	}
	defer m.end()

	if err := requireKind(op, cur, AuthenticatedNoPin, Locked, Unlocked); err != nil {
		return err
	}
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "session store not cleared", "error", err)
		return &StorageError{Op: op, Err: err}
	}
	m.commit(ctx, op, unauthenticated(), nil)
	return nil
}

func (m *Machine) commitIdentity(ctx context.Context, op string, id models.Identity) error {
	if err := m.store.SaveIdentity(ctx, id); err != nil {
		m.log.Error(ctx, "identity not saved", "op", op, "error", err)
		return &StorageError{Op: op, Err: err}
	}
	m.commit(ctx, op, withIdentity(AuthenticatedNoPin, id), nil)
	return nil
}

// authFailure classifies a provider error: transport problems become
// ErrUnavailable, everything else the operation's rejection reason.
func (m *Machine) authFailure(ctx context.Context, op string, reason error, err error) error {
	if errors.Is(err, ErrUnavailable) {
		reason = ErrUnavailable
	}
	m.log.Warn(ctx, "identity provider refused", "op", op, "reason", reason.Error(), "error", err)
	return &AuthError{Op: op, Reason: reason, Cause: err}
}

type passwordCredential struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type signupCredential struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// NormalizePhone strips the spacing and punctuation people type into phone
// numbers ("+91 98765-43210" becomes "+919876543210").
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

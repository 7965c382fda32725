package session

import (
	"github.com/healthyindia/labelscan/internal/client/models"
)

// Kind tags the variant held by a State.
type Kind int

const (
	// Unauthenticated: no persisted identity.
	Unauthenticated Kind = iota
	// AwaitingVerification: a phone challenge was sent, OTP pending.
	AwaitingVerification
	// AuthenticatedNoPin: fresh authentication, PIN not yet set.
	AuthenticatedNoPin
	// Locked: persisted identity and PIN lock, not yet unlocked this process.
	Locked
	// Unlocked: the protected area is reachable.
	Unlocked
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingVerification:
		return "awaiting_verification"
	case AuthenticatedNoPin:
		return "authenticated_no_pin"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Screen names what the presentation layer may show.
type Screen string

const (
	ScreenLogin      Screen = "login"
	ScreenSignup     Screen = "signup"
	ScreenPhone      Screen = "phone"
	ScreenVerifyCode Screen = "verify_code"
	ScreenPinSetup   Screen = "pin_setup"
	ScreenPinEntry   Screen = "pin_entry"
	ScreenDashboard  Screen = "dashboard"
)

// State is the session variant. Challenge is set only for
// AwaitingVerification; Identity only for AuthenticatedNoPin, Locked and
// Unlocked. States are values: copies never alias machine internals.
type State struct {
	Kind      Kind
	Challenge *models.Challenge
	Identity  *models.Identity
}

func unauthenticated() State { return State{Kind: Unauthenticated} }

func awaitingVerification(ch models.Challenge) State {
	return State{Kind: AwaitingVerification, Challenge: &ch}
}

func withIdentity(k Kind, id models.Identity) State {
	return State{Kind: k, Identity: &id}
}

func (s State) clone() State {
	out := State{Kind: s.Kind}
	if s.Challenge != nil {
		ch := *s.Challenge
		out.Challenge = &ch
	}
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

// Authenticated reports whether the state carries an identity.
func (s State) Authenticated() bool {
	return s.Kind == AuthenticatedNoPin || s.Kind == Locked || s.Kind == Unlocked
}

// Screen returns the screen the state routes to.
func (s State) Screen() Screen {
	switch s.Kind {
	case AwaitingVerification:
		return ScreenVerifyCode
	case AuthenticatedNoPin:
		return ScreenPinSetup
	case Locked:
		return ScreenPinEntry
	case Unlocked:
		return ScreenDashboard
	default:
		return ScreenLogin
	}
}

// Allows is the routing guard: it reports whether sc may be shown now.
// While unauthenticated the signup and phone entry screens are reachable
// alongside login.
func (s State) Allows(sc Screen) bool {
	if s.Kind == Unauthenticated {
		return sc == ScreenLogin || sc == ScreenSignup || sc == ScreenPhone
	}
	return sc == s.Screen()
}

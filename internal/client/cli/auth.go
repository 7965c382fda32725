package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/healthyindia/labelscan/internal/common"
)

// errPinMismatch is returned by SetPin when the confirmation differs.
var errPinMismatch = errors.New("PINs do not match")

// getSimpleText and getSecret are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts for email and password and signs in with them.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getSecret(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.SubmitPassword(ctx, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Signup prompts for name, email and password and creates an account.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getSecret(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Signup(ctx, name, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created")
	return nil
}

// Guest continues without an account.
func (a *App) Guest(ctx context.Context) error {
	if err := a.session.ContinueAsGuest(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Continuing as guest")
	return nil
}

// Phone prompts for a phone number and sends it a verification code.
func (a *App) Phone(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Enter phone number in international format (+countrycode...)", a.out)
	if err != nil {
		return err
	}

	if err := a.session.SubmitPhoneNumber(ctx, phone, a.attestor); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Verification code sent")
	return nil
}

// Code prompts for the 6-digit code of the pending phone challenge.
func (a *App) Code(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter the 6-digit code", a.out)
	if err != nil {
		return err
	}

	if err := a.session.SubmitVerificationCode(ctx, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Phone number verified")
	return nil
}

// Back abandons the pending phone challenge.
func (a *App) Back(ctx context.Context) error {
	return a.session.CancelVerification(ctx)
}

// SetPin asks for a new 4-digit PIN twice and stores it.
func (a *App) SetPin(ctx context.Context) error {
	pin, err := getSecret(a.reader, "Choose a 4-digit PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	confirm, err := getSecret(a.reader, "Repeat the PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pin, confirm) {
		return errPinMismatch
	}

	if err := a.session.SetPin(ctx, string(pin)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "PIN set")
	return nil
}

// Pin unlocks a restored session.
func (a *App) Pin(ctx context.Context) error {
	pin, err := getSecret(a.reader, "Enter PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	return a.session.SubmitPin(ctx, string(pin))
}

// Logout forgets the persisted identity and PIN.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/healthyindia/labelscan/internal/client/models"
)

// DefaultIdentityToolkitURL is the Identity Toolkit v1 endpoint.
const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// FirebasePhone signs users in with a phone number through the Identity
// Toolkit REST API.
type FirebasePhone struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewFirebasePhone returns a phone sign-in client. An empty baseURL selects
// DefaultIdentityToolkitURL.
func NewFirebasePhone(baseURL, apiKey string, timeout time.Duration) *FirebasePhone {
	if baseURL == "" {
		baseURL = DefaultIdentityToolkitURL
	}
	return &FirebasePhone{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type sendCodeRequest struct {
	PhoneNumber    string `json:"phoneNumber"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type sendCodeResponse struct {
	SessionInfo string `json:"sessionInfo"`
}

type signInRequest struct {
	SessionInfo string `json:"sessionInfo"`
	Code        string `json:"code"`
}

type signInResponse struct {
	IDToken     string `json:"idToken"`
	LocalID     string `json:"localId"`
	PhoneNumber string `json:"phoneNumber"`
}

type firebaseError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendVerificationCode texts a one-time code to phoneNumber and returns the
// session info identifying the challenge.
func (f *FirebasePhone) SendVerificationCode(ctx context.Context, phoneNumber, recaptchaToken string) (string, error) {
	var resp sendCodeResponse
	err := f.call(ctx, "accounts:sendVerificationCode",
		sendCodeRequest{PhoneNumber: phoneNumber, RecaptchaToken: recaptchaToken}, &resp)
	if err != nil {
		return "", err
	}
	if resp.SessionInfo == "" {
		return "", fmt.Errorf("sendVerificationCode: empty session info: %w", ErrUnauthorized)
	}
	return resp.SessionInfo, nil
}

// SignIn completes the challenge with code.
func (f *FirebasePhone) SignIn(ctx context.Context, sessionInfo, code string) (models.Grant, error) {
	var resp signInResponse
	err := f.call(ctx, "accounts:signInWithPhoneNumber",
		signInRequest{SessionInfo: sessionInfo, Code: code}, &resp)
	if err != nil {
		return models.Grant{}, err
	}

	claims := claimsFromToken(resp.IDToken)
	profile := models.Profile{ID: resp.LocalID, Name: claims.Name, Email: claims.Email}
	if profile.ID == "" {
		profile.ID = claims.Subject
	}
	if profile.Name == "" {
		profile.Name = resp.PhoneNumber
	}
	if profile.Name == "" {
		profile.Name = claims.PhoneNumber
	}
	return models.Grant{Token: resp.IDToken, Profile: profile}, nil
}

func (f *FirebasePhone) call(ctx context.Context, method string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}
	endpoint := f.baseURL + "/" + method + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	status, raw, err := doHTTP(f.http, req)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		var fe firebaseError
		_ = json.Unmarshal(raw, &fe)
		return mapFirebaseError(status, fe.Error.Message)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", method, err)
	}
	return nil
}

// mapFirebaseError maps Identity Toolkit error codes. Messages look like
// "INVALID_CODE" or "TOO_MANY_ATTEMPTS_TRY_LATER : detail".
func mapFirebaseError(status int, msg string) error {
	code, _, _ := strings.Cut(msg, " ")
	switch code {
	case "INVALID_CODE", "SESSION_EXPIRED", "INVALID_SESSION_INFO", "MISSING_CODE":
		return fmt.Errorf("%w: %s", ErrInvalidCode, code)
	case "TOO_MANY_ATTEMPTS_TRY_LATER", "QUOTA_EXCEEDED":
		return fmt.Errorf("%w: %s", ErrUnavailable, code)
	}
	return statusError(status, msg)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/healthyindia/labelscan/internal/client/labels"
	"github.com/healthyindia/labelscan/internal/client/models"
)

const maxResponseBytes = 4 << 20

// APIClient talks to the backend over HTTP JSON.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient returns a client for the backend at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiUser struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  *apiUser `json:"user"`
	Error string   `json:"error"`
}

// Login exchanges email and password for a session token and profile.
func (c *APIClient) Login(ctx context.Context, email, password string) (models.Grant, error) {
	var resp authResponse
	if err := c.postJSON(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return models.Grant{}, err
	}
	if resp.Token == "" {
		return models.Grant{}, fmt.Errorf("login: empty token: %w", ErrUnauthorized)
	}

	profile := models.Profile{Email: email}
	if resp.User != nil {
		profile = models.Profile{ID: resp.User.ID, Name: resp.User.Name, Email: resp.User.Email}
		if profile.ID == "" {
			profile.ID = resp.User.MongoID
		}
	}
	if profile.ID == "" {
		profile.ID = claimsFromToken(resp.Token).Subject
	}
	return models.Grant{Token: resp.Token, Profile: profile}, nil
}

// Signup registers a new account. The backend answers with a token only, so
// the profile is built from the request and the token's subject.
func (c *APIClient) Signup(ctx context.Context, name, email, password string) (models.Grant, error) {
	var resp authResponse
	if err := c.postJSON(ctx, "/api/auth/signup", signupRequest{Name: name, Email: email, Password: password}, &resp); err != nil {
		return models.Grant{}, err
	}
	if resp.Token == "" {
		return models.Grant{}, fmt.Errorf("signup: empty token: %w", ErrUnauthorized)
	}
	return models.Grant{
		Token:   resp.Token,
		Profile: models.Profile{ID: claimsFromToken(resp.Token).Subject, Name: name, Email: email},
	}, nil
}

type analyzeResponse struct {
	labels.AnalysisResult
	Error string `json:"error"`
}

// Analyze uploads a JPEG photo of a food label and returns the analysis.
func (c *APIClient) Analyze(ctx context.Context, image []byte) (*labels.AnalysisResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="food.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("analyze: build form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("analyze: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("analyze: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &body)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, raw, err := doHTTP(c.http, req)
	if err != nil {
		return nil, err
	}

	var resp analyzeResponse
	decodeErr := json.Unmarshal(raw, &resp)
	if decodeErr == nil && resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisFailed, resp.Error)
	}
	if err := statusError(status, ""); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAnalysisFailed, decodeErr)
	}
	return &resp.AnalysisResult, nil
}

func (c *APIClient) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, raw, err := doHTTP(c.http, req)
	if err != nil {
		return err
	}

	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &envelope)
	if err := statusError(status, envelope.Error); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func doHTTP(hc *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%s %s: %w: %v", req.Method, req.URL.Path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: read body: %w: %v", req.Method, req.URL.Path, ErrUnavailable, err)
	}
	return resp.StatusCode, raw, nil
}

// statusError maps an HTTP status to the package sentinels.
func statusError(status int, msg string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusBadRequest, status == http.StatusUnauthorized, status == http.StatusForbidden:
		if msg == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return &StatusError{Code: status, Message: msg}
	}
}

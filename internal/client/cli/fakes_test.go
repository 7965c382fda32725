package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/healthyindia/labelscan/internal/client/client"
	"github.com/healthyindia/labelscan/internal/client/labels"
	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/client/services"
	"github.com/healthyindia/labelscan/internal/client/session"
	"github.com/healthyindia/labelscan/internal/logging"
)

type fakeProvider struct{}

func (fakeProvider) Authenticate(_ context.Context, email, password string) (models.Grant, error) {
	if password != "secret" {
		return models.Grant{}, fmt.Errorf("%w: bad password", session.ErrInvalidCredentials)
	}
	return models.Grant{Token: "tok-1", Profile: models.Profile{ID: "u-1", Name: "Asha", Email: email}}, nil
}

func (fakeProvider) Signup(_ context.Context, name, email, _ string) (models.Grant, error) {
	return models.Grant{Token: "tok-2", Profile: models.Profile{ID: "u-2", Name: name, Email: email}}, nil
}

func (fakeProvider) SendPhoneChallenge(context.Context, string, string) (string, error) {
	return "ch-1", nil
}

func (fakeProvider) VerifyChallenge(_ context.Context, _, code string) (models.Grant, error) {
	if code != "123456" {
		return models.Grant{}, session.ErrInvalidCode
	}
	return models.Grant{Token: "tok-3", Profile: models.Profile{ID: "u-3"}}, nil
}

type memStore struct {
	id  *models.Identity
	pin *models.PinLock
}

func (s *memStore) LoadIdentity(context.Context) (*models.Identity, error) { return s.id, nil }
func (s *memStore) LoadPin(context.Context) (*models.PinLock, error)       { return s.pin, nil }

func (s *memStore) SaveIdentity(_ context.Context, id models.Identity) error {
	s.id = &id
	return nil
}

func (s *memStore) SavePin(_ context.Context, lock models.PinLock) error {
	s.pin = &lock
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.id, s.pin = nil, nil
	return nil
}

type fakeAnalyzer struct {
	result *labels.AnalysisResult
	err    error
	images [][]byte
}

func (f *fakeAnalyzer) Analyze(_ context.Context, image []byte) (*labels.AnalysisResult, error) {
	f.images = append(f.images, image)
	return f.result, f.err
}

func sampleResult() *labels.AnalysisResult {
	return &labels.AnalysisResult{
		ProductLabels: []string{"Unhealthy Level", "Vegan"},
		IngredientsAnalyzed: []labels.Ingredient{
			{Name: "Sugar", Type: "Natural", SafetyLevel: "Above Safe Limit", ProcessingLevel: "Processed", HealthImpact: "Raises blood sugar"},
			{Name: "Oats", Type: "Natural", SafetyLevel: "Within Safe Limit", ProcessingLevel: "Unprocessed"},
		},
		SuggestedAlternatives: []labels.Alternative{
			{Name: "Oat Bar", Brand: "Acme", Category: "Snacks", BuyLink: "https://shop.example/oat-bar"},
		},
	}
}

type testApp struct {
	*App
	out      *bytes.Buffer
	store    *memStore
	analyzer *fakeAnalyzer
}

// newTestApp builds an App over in-memory fakes that reads its input from
// lines. Secrets are read as plain lines.
func newTestApp(t *testing.T, st *memStore, lines ...string) *testApp {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	if st == nil {
		st = &memStore{}
	}
	an := &fakeAnalyzer{result: sampleResult()}
	out := &bytes.Buffer{}

	app := &App{
		session:  session.New(fakeProvider{}, st, nil),
		captures: services.NewCaptureService(an, nil, labels.NewBoard(), nil),
		attestor: client.StaticAttestor{Token: "captcha"},
		maxImage: 1 << 10,
		log:      logging.Nop(),
		reader:   bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:      out,
	}
	return &testApp{App: app, out: out, store: st, analyzer: an}
}

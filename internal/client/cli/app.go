package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/healthyindia/labelscan/internal/client/archive"
	"github.com/healthyindia/labelscan/internal/client/client"
	"github.com/healthyindia/labelscan/internal/client/config"
	"github.com/healthyindia/labelscan/internal/client/labels"
	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/client/services"
	"github.com/healthyindia/labelscan/internal/client/session"
	"github.com/healthyindia/labelscan/internal/client/store"
	"github.com/healthyindia/labelscan/internal/filex"
	"github.com/healthyindia/labelscan/internal/logging"
)

// sessionMachine is the part of *session.Machine the CLI drives.
type sessionMachine interface {
	State() session.State
	Restore(ctx context.Context) session.State
	Subscribe(fn func(session.State)) (cancel func())
	SubmitPassword(ctx context.Context, email, password string) error
	Signup(ctx context.Context, name, email, password string) error
	ContinueAsGuest(ctx context.Context) error
	SubmitPhoneNumber(ctx context.Context, phoneNumber string, attestor session.Attestor) error
	SubmitVerificationCode(ctx context.Context, code string) error
	CancelVerification(ctx context.Context) error
	SetPin(ctx context.Context, pin string) error
	SubmitPin(ctx context.Context, pin string) error
	Logout(ctx context.Context) error
}

// captureService is the part of *services.CaptureService the CLI drives.
type captureService interface {
	Capture(ctx context.Context, who models.Identity, image []byte) (labels.Capture, error)
	Current() (labels.Capture, error)
	Chips() []labels.Chip
	Ingredients(captureID, label string) ([]labels.Ingredient, error)
	Discard()
}

type App struct {
	session  sessionMachine
	captures captureService
	attestor session.Attestor
	maxImage int64
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closers  []io.Closer
}

// NewApp wires the local session store, the remote adapters, the session
// machine and the capture service from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(filepath.Dir(c.DBPath))
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	st, err := store.Open(ctx, filepath.Join(dir, filepath.Base(c.DBPath)))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := client.NewAPIClient(c.APIBaseURL, c.RequestTimeout)

	var phone *client.FirebasePhone
	if c.PhoneEnabled() {
		phone = client.NewFirebasePhone(c.IdentityToolkitURL, c.FirebaseAPIKey, c.RequestTimeout)
	}

	var arch archive.Archive = archive.Nop{}
	if c.ArchiveBucket != "" {
		s3, err := archive.NewS3(ctx, archive.Options{
			Bucket:          c.ArchiveBucket,
			Region:          c.AWSRegion,
			Endpoint:        c.AWSEndpointURL,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretKey,
		})
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("archive: %w", err)
		}
		arch = s3
	}

	return &App{
		session:  session.New(client.NewProvider(api, phone), st, log),
		captures: services.NewCaptureService(api, arch, labels.NewBoard(), log),
		attestor: client.StaticAttestor{Token: c.RecaptchaToken},
		maxImage: c.MaxImageBytes,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closers:  []io.Closer{st},
	}, nil
}

// Run restores the persisted session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	cancel := a.session.Subscribe(a.onStateChange)
	defer cancel()

	st := a.session.Restore(ctx)
	fmt.Fprintln(a.out, "Welcome to labelscan (type 'help' for commands)")
	if st.Identity != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", displayName(*st.Identity))
	}

	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) close(ctx context.Context) {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}
}

// onStateChange drops the current capture whenever the dashboard is left.
func (a *App) onStateChange(st session.State) {
	if st.Kind != session.Unlocked {
		a.captures.Discard()
	}
}

func (a *App) screen() session.Screen {
	return a.session.State().Screen()
}

// status is the prompt suffix: the screen plus the signed-in user.
func (a *App) status() string {
	st := a.session.State()
	if st.Identity == nil {
		return string(st.Screen())
	}
	return fmt.Sprintf("%s (%s)", st.Screen(), displayName(*st.Identity))
}

func displayName(id models.Identity) string {
	if id.IsGuest() {
		return id.Name + ", guest"
	}
	if id.Name != "" {
		return id.Name
	}
	return id.Email
}

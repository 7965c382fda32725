package config

import (
	"time"

	"github.com/healthyindia/labelscan/internal/validate"
)

// Config holds runtime settings for the labelscan CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend (login, signup, analyze).
//   - FirebaseAPIKey / IdentityToolkitURL: phone sign-in. An empty key
//     disables the phone flow.
//   - RecaptchaToken: attestation token sent with verification requests.
//   - DBPath: SQLite file holding the persisted session.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel / LogFormat: see logging.Options.
//   - Archive*/AWS*: optional S3 archive of captured photos. An empty
//     ArchiveBucket disables archiving.
type Config struct {
	APIBaseURL         string `validate:"required,url"`
	FirebaseAPIKey     string
	IdentityToolkitURL string `validate:"omitempty,url"`
	RecaptchaToken     string
	DBPath             string `validate:"required"`
	RequestTimeout     time.Duration
	LogLevel           string `validate:"omitempty,oneof=trace debug info warn warning error"`
	LogFormat          string `validate:"omitempty,oneof=text json console zerolog"`
	MaxImageBytes      int64  `validate:"gt=0"`

	ArchiveBucket  string
	AWSRegion      string
	AWSEndpointURL string `validate:"omitempty,url"`
	AWSAccessKeyID string
	AWSSecretKey   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000"
	c.DBPath = "labelscan.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MaxImageBytes = 10 << 20
	c.AWSRegion = "us-east-1"
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// PhoneEnabled reports whether phone sign-in is configured.
func (c *Config) PhoneEnabled() bool {
	return c.FirebaseAPIKey != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a .env file, the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

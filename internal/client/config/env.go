package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DotEnvFile is read, when present, before the environment is consulted.
// Variables already set in the environment win over the file.
const DotEnvFile = ".env"

// EnvConfig is a DTO used exclusively for environment decoding. Unset
// variables decode to zero values and leave the running Config untouched.
type EnvConfig struct {
	APIBaseURL         string        `env:"LABELSCAN_API_BASE_URL"`
	FirebaseAPIKey     string        `env:"LABELSCAN_FIREBASE_API_KEY"`
	IdentityToolkitURL string        `env:"LABELSCAN_IDENTITY_TOOLKIT_URL"`
	RecaptchaToken     string        `env:"LABELSCAN_RECAPTCHA_TOKEN"`
	DBPath             string        `env:"LABELSCAN_DB_PATH"`
	RequestTimeout     time.Duration `env:"LABELSCAN_REQUEST_TIMEOUT"`
	LogLevel           string        `env:"LABELSCAN_LOG_LEVEL"`
	LogFormat          string        `env:"LABELSCAN_LOG_FORMAT"`
	MaxImageBytes      int64         `env:"LABELSCAN_MAX_IMAGE_BYTES"`
	ArchiveBucket      string        `env:"LABELSCAN_ARCHIVE_BUCKET"`
	AWSRegion          string        `env:"AWS_REGION"`
	AWSEndpointURL     string        `env:"AWS_ENDPOINT_URL"`
	AWSAccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey       string        `env:"AWS_SECRET_ACCESS_KEY"`
}

// parseEnv overlays Config with the .env file and the process environment.
// Panics on decoding errors, like the other loaders.
func parseEnv(cfg *Config) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		panic(err)
	}
	if err := applyEnv(context.Background(), cfg, envconfig.OsLookuper()); err != nil {
		panic(err)
	}
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func applyEnv(ctx context.Context, cfg *Config, l envconfig.Lookuper) error {
	var ec EnvConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &ec, Lookuper: l}); err != nil {
		return err
	}

	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	setString(&cfg.FirebaseAPIKey, ec.FirebaseAPIKey)
	setString(&cfg.IdentityToolkitURL, ec.IdentityToolkitURL)
	setString(&cfg.RecaptchaToken, ec.RecaptchaToken)
	setString(&cfg.DBPath, ec.DBPath)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
	setString(&cfg.ArchiveBucket, ec.ArchiveBucket)
	setString(&cfg.AWSRegion, ec.AWSRegion)
	setString(&cfg.AWSEndpointURL, ec.AWSEndpointURL)
	setString(&cfg.AWSAccessKeyID, ec.AWSAccessKeyID)
	setString(&cfg.AWSSecretKey, ec.AWSSecretKey)
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.MaxImageBytes > 0 {
		cfg.MaxImageBytes = ec.MaxImageBytes
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

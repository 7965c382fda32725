package config

import (
	"encoding/json"
	"os"

	"github.com/healthyindia/labelscan/internal/flagx"
	"github.com/healthyindia/labelscan/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "30s" or as integer nanoseconds. Absent keys leave the
// running Config untouched.
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	FirebaseAPIKey     string         `json:"firebase_api_key"`
	IdentityToolkitURL string         `json:"identity_toolkit_url"`
	RecaptchaToken     string         `json:"recaptcha_token"`
	DBPath             string         `json:"db_path"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	MaxImageBytes      int64          `json:"max_image_bytes"`
	ArchiveBucket      string         `json:"archive_bucket"`
	AWSRegion          string         `json:"aws_region"`
	AWSEndpointURL     string         `json:"aws_endpoint_url"`
	AWSAccessKeyID     string         `json:"aws_access_key_id"`
	AWSSecretKey       string         `json:"aws_secret_access_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flag (flagx.ConfigPath);
// without one nothing is loaded. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.FirebaseAPIKey, jc.FirebaseAPIKey)
	setString(&cfg.IdentityToolkitURL, jc.IdentityToolkitURL)
	setString(&cfg.RecaptchaToken, jc.RecaptchaToken)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.ArchiveBucket, jc.ArchiveBucket)
	setString(&cfg.AWSRegion, jc.AWSRegion)
	setString(&cfg.AWSEndpointURL, jc.AWSEndpointURL)
	setString(&cfg.AWSAccessKeyID, jc.AWSAccessKeyID)
	setString(&cfg.AWSSecretKey, jc.AWSSecretKey)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxImageBytes > 0 {
		cfg.MaxImageBytes = jc.MaxImageBytes
	}
}

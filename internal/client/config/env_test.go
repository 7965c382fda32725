package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv_OverlaysOnlySetVariables(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	err := applyEnv(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{
		"LABELSCAN_API_BASE_URL":     "https://api.example.org",
		"LABELSCAN_FIREBASE_API_KEY": "AIza-test",
		"LABELSCAN_REQUEST_TIMEOUT":  "5s",
		"LABELSCAN_ARCHIVE_BUCKET":   "captures",
		"AWS_REGION":                 "ap-south-1",
	}))
	require.NoError(t, err)

	want := Config{}
	want.LoadDefaults()
	want.APIBaseURL = "https://api.example.org"
	want.FirebaseAPIKey = "AIza-test"
	want.RequestTimeout = 5 * time.Second
	want.ArchiveBucket = "captures"
	want.AWSRegion = "ap-south-1"

	assert.Empty(t, cmp.Diff(want, cfg))
	assert.True(t, cfg.PhoneEnabled())
}

func TestApplyEnv_BadValue(t *testing.T) {
	var cfg Config
	err := applyEnv(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{
		"LABELSCAN_REQUEST_TIMEOUT": "soon",
	}))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LABELSCAN_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("LABELSCAN_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("LABELSCAN_TEST_DOTENV"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("LABELSCAN_TEST_DOTENV"))
}

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LABELSCAN_DB_PATH", "/var/lib/labelscan/session.db")
	t.Setenv("LABELSCAN_LOG_FORMAT", "console")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "/var/lib/labelscan/session.db", cfg.DBPath)
	assert.Equal(t, "console", cfg.LogFormat)
}

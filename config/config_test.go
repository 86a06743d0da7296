package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andyle182810/viaphone/config"
	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, environment map[string]string) (*config.Config, error) {
	t.Helper()

	return config.Parse(env.Options{Environment: environment}) //nolint:exhaustruct
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestParse_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, map[string]string{"VIAPHONE_API_KEY": "key-1"})

	require.NoError(t, err)
	require.Equal(t, "key-1", cfg.APIKey)
	require.Equal(t, "https://api.viaphoneapp.com/v2/", cfg.BaseURL)
	require.Equal(t, "en", cfg.Language)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, 10, cfg.MaxRedirects)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.SingleRecipient)
}

func TestParse_ReadsOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, map[string]string{
		"VIAPHONE_API_KEY":          "key-1",
		"VIAPHONE_LANGUAGE":         "cs",
		"VIAPHONE_TIMEOUT":          "5s",
		"VIAPHONE_SINGLE_RECIPIENT": "0999999999",
		"LOG_LEVEL":                 "debug",
	})

	require.NoError(t, err)
	require.Equal(t, "cs", cfg.Language)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, "0999999999", cfg.SingleRecipient)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := parse(t, map[string]string{})

	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestParse_RejectsInvalidDuration(t *testing.T) {
	t.Parallel()

	_, err := parse(t, map[string]string{"VIAPHONE_API_KEY": "key-1", "VIAPHONE_TIMEOUT": "soon"})

	require.Error(t, err)
}

func TestParse_FillsGapsFromProfile(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "viaphone.ini", `
[viaphone]
api_key = profile-key
language = sk
single_recipient = 0911111111
`)

	cfg, err := parse(t, map[string]string{
		"VIAPHONE_PROFILE_FILE": profile,
		"VIAPHONE_LANGUAGE":     "cs",
	})

	require.NoError(t, err)
	require.Equal(t, "profile-key", cfg.APIKey)
	require.Equal(t, "cs", cfg.Language)
	require.Equal(t, "0911111111", cfg.SingleRecipient)
}

func TestParse_EnvironmentWinsOverProfile(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "viaphone.ini", "[viaphone]\napi_key = profile-key\n")

	cfg, err := parse(t, map[string]string{
		"VIAPHONE_PROFILE_FILE": profile,
		"VIAPHONE_API_KEY":      "env-key",
	})

	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.APIKey)
}

func TestParse_ReadsTimeoutAndRedirectsFromProfile(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "viaphone.ini", `
[viaphone]
api_key = profile-key
timeout = 12s
max_redirects = 3
`)

	cfg, err := parse(t, map[string]string{"VIAPHONE_PROFILE_FILE": profile})

	require.NoError(t, err)
	require.Equal(t, 12*time.Second, cfg.Timeout)
	require.Equal(t, 3, cfg.MaxRedirects)

	cfg, err = parse(t, map[string]string{
		"VIAPHONE_PROFILE_FILE":  profile,
		"VIAPHONE_TIMEOUT":       "7s",
		"VIAPHONE_MAX_REDIRECTS": "5",
	})

	require.NoError(t, err)
	require.Equal(t, 7*time.Second, cfg.Timeout)
	require.Equal(t, 5, cfg.MaxRedirects)
}

func TestParse_RejectsInvalidProfileTimeout(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "viaphone.ini", "[viaphone]\napi_key = profile-key\ntimeout = soon\n")

	_, err := parse(t, map[string]string{"VIAPHONE_PROFILE_FILE": profile})

	require.ErrorContains(t, err, "invalid timeout in profile")
}

func TestParse_ReportsMissingProfile(t *testing.T) {
	t.Parallel()

	_, err := parse(t, map[string]string{
		"VIAPHONE_API_KEY":      "key-1",
		"VIAPHONE_PROFILE_FILE": filepath.Join(t.TempDir(), "missing.ini"),
	})

	require.ErrorContains(t, err, "failed to load profile")
}

func TestNew_IgnoresMissingEnvFile(t *testing.T) {
	t.Setenv("VIAPHONE_API_KEY", "from-process")

	cfg, err := config.New(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	require.Equal(t, "from-process", cfg.APIKey)
}

func TestNew_LoadsEnvFileWithoutOverriding(t *testing.T) {
	t.Setenv("VIAPHONE_API_KEY", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("VIAPHONE_TIMEOUT") })

	dotenv := writeFile(t, ".env", "VIAPHONE_API_KEY=from-file\nVIAPHONE_TIMEOUT=7s\n")

	cfg, err := config.New(dotenv)

	require.NoError(t, err)
	require.Equal(t, "from-process", cfg.APIKey)
	require.Equal(t, 7*time.Second, cfg.Timeout)
}

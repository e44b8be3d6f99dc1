package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://api.softlayer.com/rest/v3.1", cfg.API.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10*time.Second, cfg.CCI.PollInterval)
	assert.Equal(t, 7200, cfg.DNS.TTL)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api:
  endpoint: https://api.service.softlayer.com/rest/v3.1
  timeout: 30s
cci:
  poll-interval: 2s
dns:
  ttl: 300
output: json
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultPrivateEndpoint, cfg.API.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, float64(DefaultRequestsPerSecond), cfg.API.RequestsPerSecond, "unset keys keep defaults")
	assert.Equal(t, 2*time.Second, cfg.CCI.PollInterval)
	assert.Equal(t, 300, cfg.DNS.TTL)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadConfig_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "api:\n  username: file-user\n  api-key: file-key\n")

	t.Setenv("SL_API_ENDPOINT", "https://example.test/rest")
	t.Setenv("SL_TIMEOUT", "5s")
	t.Setenv("SL_USERNAME", "env-user")
	t.Setenv("SL_API_KEY", "env-key")
	t.Setenv("SL_ACCESS_TOKEN", "token")
	t.Setenv("SL_PROFILE", "prod")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/rest", cfg.API.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "env-user", cfg.API.Username)
	assert.Equal(t, "env-key", cfg.API.APIKey)
	assert.Equal(t, "token", cfg.API.AccessToken)
	assert.Equal(t, "prod", cfg.Profile)
	assert.True(t, cfg.API.HasCredentials())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "api: [\n")
		_, err := LoadConfig(dir)
		assert.ErrorContains(t, err, "error loading config from")
	})

	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv("SL_TIMEOUT", "soon")
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "invalid environment override")
	})

	t.Run("invalid values", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "dns:\n  ttl: -1\noutput: xml\n")
		_, err := LoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dns.ttl")
		assert.Contains(t, err.Error(), "output")
	})
}

func TestSave_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := Default()
	cfg.API.Username = "SL1"
	cfg.API.APIKey = "secret"
	cfg.API.Timeout = 15 * time.Second

	require.NoError(t, Save(dir, cfg))

	data, err := os.ReadFile(FilePath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 15s")

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

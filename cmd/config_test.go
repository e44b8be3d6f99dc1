package cmd

import (
	"encoding/json"
	"os"
	"testing"

	"slcli/internal/config"
	"slcli/internal/profile"
	"slcli/internal/softlayer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, config.DefaultEndpoint, endpointURL("public"))
	assert.Equal(t, config.DefaultEndpoint, endpointURL(""))
	assert.Equal(t, config.DefaultPrivateEndpoint, endpointURL("PRIVATE"))
	assert.Equal(t, "https://example.com/rest", endpointURL("https://example.com/rest"))
}

func TestConfigSetup_PromptsAndSkipsVerify(t *testing.T) {
	c := newTestCLI(t)

	require.NoError(t, c.run("jdoe\nkey-123\n", "config", "setup", "--skip-verify", "--endpoint-url", "private"))
	assert.Contains(t, c.errOut.String(), "Username: ")
	assert.Contains(t, c.errOut.String(), "API Key: ")
	assert.Empty(t, c.api.Calls())

	store := profile.NewStorageWithPath(c.configDir)
	p, err := store.Current()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "default", p.Name)
	assert.Equal(t, "jdoe", p.Username)
	assert.Equal(t, "key-123", p.APIKey)
	assert.Equal(t, config.DefaultPrivateEndpoint, p.Endpoint)
}

func TestConfigSetup_VerifiesCredentials(t *testing.T) {
	c := newTestCLI(t)
	c.api.Respond(softlayer.ServiceAccount, "getObject", map[string]interface{}{"id": 4242, "companyName": "Acme"})

	require.NoError(t, c.run("", "config", "setup", "--profile-name", "acme",
		"--username", "jdoe", "--api-key", "key-123", "--endpoint-url", c.api.URL()))

	calls := c.api.CallsTo(softlayer.ServiceAccount, "getObject")
	require.Len(t, calls, 1)
	assert.Equal(t, "jdoe", calls[0].Username)
	assert.Equal(t, "key-123", calls[0].APIKey)
	assert.Contains(t, c.out.String(), "Authenticated to account 4242 (Acme)")

	name, err := profile.NewStorageWithPath(c.configDir).CurrentName()
	require.NoError(t, err)
	assert.Equal(t, "acme", name)
}

func TestConfigSetup_RejectedCredentialsAreNotSaved(t *testing.T) {
	c := newTestCLI(t)
	c.api.Fail(softlayer.ServiceAccount, "getObject", "SoftLayer_Exception_InvalidLegacyToken", "Invalid API token.")

	err := c.run("", "config", "setup", "--username", "jdoe", "--api-key", "bad", "--endpoint-url", c.api.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials were rejected")

	names, err := profile.NewStorageWithPath(c.configDir).Names()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestConfigSetup_MissingInput(t *testing.T) {
	c := newTestCLI(t)
	err := c.run("", "config", "setup", "--skip-verify")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))
}

func TestConfigShow_MasksSecrets(t *testing.T) {
	c := newTestCLI(t)

	require.NoError(t, c.run("", "-o", "json", "config", "show"))
	var view configView
	require.NoError(t, json.Unmarshal(c.out.Bytes(), &view))
	assert.Equal(t, "environment", view.Source)
	assert.Equal(t, c.api.URL(), view.Endpoint)
	assert.Equal(t, "********oken", view.AccessToken)
	assert.Equal(t, config.DefaultTTL, view.DNSTTL)
	assert.Equal(t, "json", view.Output)
	assert.NotContains(t, c.out.String(), "test-token")
}

func TestConfigInit(t *testing.T) {
	c := newTestCLI(t)

	require.NoError(t, c.run("", "config", "init"))
	_, err := os.Stat(config.FilePath(c.configDir))
	require.NoError(t, err)

	err = c.run("", "config", "init")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))

	require.NoError(t, c.run("", "config", "init", "--overwrite"))
	cfg, err := config.LoadConfig(c.configDir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
}

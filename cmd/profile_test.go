package cmd

import (
	"encoding/json"
	"testing"

	"slcli/internal/profile"
	"slcli/internal/softlayer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_AddListUse(t *testing.T) {
	c := newTestCLI(t)

	require.NoError(t, c.run("", "profile", "add", "dev", "--username", "jdoe", "--api-key", "abcdef123456"))
	require.NoError(t, c.run("", "profile", "add", "prod", "--access-token", "tok-999999"))

	require.NoError(t, c.run("", "profile", "current"))
	assert.Equal(t, "dev\n", c.out.String())

	require.NoError(t, c.run("", "profile", "use", "prod"))
	require.NoError(t, c.run("", "profile", "current"))
	assert.Equal(t, "prod\n", c.out.String())

	require.NoError(t, c.run("", "-o", "json", "profile", "list"))
	var views []profileView
	require.NoError(t, json.Unmarshal(c.out.Bytes(), &views))
	require.Len(t, views, 2)
	assert.False(t, views[0].Current)
	assert.True(t, views[1].Current)
	assert.Equal(t, "********3456", views[0].APIKey)
	assert.NotContains(t, c.out.String(), "abcdef123456")
}

func TestProfile_AddValidation(t *testing.T) {
	c := newTestCLI(t)

	err := c.run("", "profile", "add", "Bad_Name", "--access-token", "x")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))

	err = c.run("", "profile", "add", "dev", "--username", "jdoe")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))

	err = c.run("", "profile", "add", "dev", "--access-token", "x", "--default-output", "xml")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))
}

func TestProfile_UpdateKeepsUnchangedFields(t *testing.T) {
	c := newTestCLI(t)
	require.NoError(t, c.run("", "profile", "add", "dev", "--username", "jdoe", "--api-key", "abc", "--endpoint-url", "https://example.com"))
	require.NoError(t, c.run("", "profile", "update", "dev", "--api-key", "xyz", "--default-output", "yaml"))

	p, err := profile.NewStorageWithPath(c.configDir).Get("dev")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", p.Username)
	assert.Equal(t, "xyz", p.APIKey)
	assert.Equal(t, "https://example.com", p.Endpoint)
	require.NotNil(t, p.Settings)
	assert.Equal(t, "yaml", p.Settings.Output)
}

func TestProfile_DeleteConfirms(t *testing.T) {
	c := newTestCLI(t)
	require.NoError(t, c.run("", "profile", "add", "dev", "--access-token", "x"))

	err := c.run("n\n", "profile", "delete", "dev")
	assert.Equal(t, ExitCodeAborted, getExitCode(err))
	assert.Contains(t, c.errOut.String(), `Delete profile "dev"? [y/N]: `)

	require.NoError(t, c.run("", "profile", "delete", "dev", "-f"))
	_, err = profile.NewStorageWithPath(c.configDir).Get("dev")
	var notFound *profile.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	err = c.run("", "profile", "delete", "dev", "-f")
	assert.Equal(t, ExitCodeNotFound, getExitCode(err))
}

func TestProfile_RenameAndShow(t *testing.T) {
	c := newTestCLI(t)
	require.NoError(t, c.run("", "profile", "add", "dev", "--username", "jdoe", "--api-key", "secret-key-1234"))
	require.NoError(t, c.run("", "profile", "rename", "dev", "staging"))

	require.NoError(t, c.run("", "profile", "show"))
	out := c.out.String()
	assert.Contains(t, out, "staging")
	assert.Contains(t, out, "********1234")
	assert.NotContains(t, out, "secret-key-1234")

	err := c.run("", "profile", "rename", "staging", "Nope!")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))
}

func TestProfile_SelectedByFlagOutranksEnvironment(t *testing.T) {
	c := newTestCLI(t)
	require.NoError(t, c.run("", "profile", "add", "prod", "--access-token", "prod-token", "--default-output", "json"))
	c.api.Respond(softlayer.ServiceAccount, "getVirtualGuests", []map[string]interface{}{{"id": 1}})

	require.NoError(t, c.run("", "--profile", "prod", "cci", "list"))

	calls := c.api.CallsTo(softlayer.ServiceAccount, "getVirtualGuests")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer prod-token", calls[0].Authorization)
	assert.JSONEq(t, `[{"id":1}]`, c.out.String())
}

func TestProfile_UnknownProfileFlag(t *testing.T) {
	c := newTestCLI(t)
	err := c.run("", "--profile", "ghost", "cci", "list")
	assert.Equal(t, ExitCodeNotFound, getExitCode(err))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abcd"))
	assert.Equal(t, "********bcde", maskSecret("abcde"))
}

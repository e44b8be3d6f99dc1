package profile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Lifecycle(t *testing.T) {
	storage := NewStorageWithPath(t.TempDir())

	profiles, err := storage.List()
	require.NoError(t, err)
	assert.Empty(t, profiles)

	current, err := storage.Current()
	require.NoError(t, err)
	assert.Nil(t, current)

	require.NoError(t, storage.Add(Profile{Name: "dev", Username: "SL1", APIKey: "key1"}))
	require.NoError(t, storage.Add(Profile{Name: "prod", AccessToken: "tok", Settings: &Settings{Output: "json"}}))
	assert.ErrorContains(t, storage.Add(Profile{Name: "dev", Username: "x", APIKey: "y"}), "already exists")

	name, err := storage.CurrentName()
	require.NoError(t, err)
	assert.Equal(t, "dev", name, "first profile becomes current")

	require.NoError(t, storage.Use("prod"))
	current, err = storage.Current()
	require.NoError(t, err)
	assert.Equal(t, "json", current.Settings.Output)

	var notFound *NotFoundError
	require.ErrorAs(t, storage.Use("missing"), &notFound)
	assert.Equal(t, "missing", notFound.Name)

	require.NoError(t, storage.Update(Profile{Name: "dev", Username: "SL1", APIKey: "key2"}))
	dev, err := storage.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, "key2", dev.APIKey)
	require.ErrorAs(t, storage.Update(Profile{Name: "qa", AccessToken: "t"}), &notFound)

	require.NoError(t, storage.Rename("prod", "production"))
	name, err = storage.CurrentName()
	require.NoError(t, err)
	assert.Equal(t, "production", name)
	assert.ErrorContains(t, storage.Rename("dev", "production"), "already exists")
	require.ErrorAs(t, storage.Rename("nope", "other"), &notFound)

	names, err := storage.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "production"}, names)

	require.NoError(t, storage.Delete("production"))
	name, err = storage.CurrentName()
	require.NoError(t, err)
	assert.Empty(t, name)
	require.ErrorAs(t, storage.Delete("production"), &notFound)
}

func TestStorage_FileFormat(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageWithPath(dir)
	require.NoError(t, storage.Add(Profile{Name: "dev", Username: "SL1", APIKey: "secret"}))

	data, err := os.ReadFile(filepath.Join(dir, "profiles.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "current-profile: dev")
	assert.Contains(t, string(data), "api-key: secret")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(storage.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestStorage_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte("profiles: [\n"), 0600))

	_, err := NewStorageWithPath(dir).Load()
	assert.ErrorContains(t, err, "failed to parse profiles file")
}

func TestStorage_DanglingCurrent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte("current-profile: gone\n"), 0600))

	_, err := NewStorageWithPath(dir).Current()
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

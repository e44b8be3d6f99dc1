package cci

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.yaml")
	tmpl := &Template{
		Hostname:   "web01",
		Domain:     "example.com",
		CPU:        2,
		Memory:     "4G",
		Hourly:     true,
		OS:         "UBUNTU_LATEST",
		Disk:       []int{25, 100},
		Key:        []string{"deploy"},
		VlanPublic: 300,
	}
	require.NoError(t, tmpl.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vlan-public: 300")
	assert.NotContains(t, string(data), "monthly")

	loaded, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, tmpl, loaded)
}

func TestLoadTemplate_Errors(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cpu: [oops"), 0600))
	_, err = LoadTemplate(path)
	assert.Error(t, err)
}

package cci

import (
	"context"
	"testing"

	"slcli/internal/softlayer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createObjectOptionsFixture() map[string]interface{} {
	tmpl := func(v map[string]interface{}) map[string]interface{} {
		return map[string]interface{}{"template": v}
	}
	return map[string]interface{}{
		"datacenters": []interface{}{
			tmpl(map[string]interface{}{"datacenter": map[string]interface{}{"name": "ams01"}}),
			tmpl(map[string]interface{}{"datacenter": map[string]interface{}{"name": "dal05"}}),
		},
		"processors": []interface{}{
			tmpl(map[string]interface{}{"startCpus": 1}),
			tmpl(map[string]interface{}{"startCpus": 2}),
			tmpl(map[string]interface{}{"startCpus": 2, "dedicatedAccountHostOnlyFlag": true}),
		},
		"memory": []interface{}{
			tmpl(map[string]interface{}{"maxMemory": 1024}),
			tmpl(map[string]interface{}{"maxMemory": 2048}),
		},
		"operatingSystems": []interface{}{
			tmpl(map[string]interface{}{"operatingSystemReferenceCode": "UBUNTU_LATEST"}),
			tmpl(map[string]interface{}{"operatingSystemReferenceCode": "CENTOS_7_64"}),
			tmpl(map[string]interface{}{"operatingSystemReferenceCode": "UBUNTU_22_64"}),
		},
		"blockDevices": []interface{}{
			tmpl(map[string]interface{}{"localDiskFlag": true, "blockDevices": []interface{}{
				map[string]interface{}{"device": "0", "diskImage": map[string]interface{}{"capacity": 25}},
			}}),
			tmpl(map[string]interface{}{"localDiskFlag": false, "blockDevices": []interface{}{
				map[string]interface{}{"device": "0", "diskImage": map[string]interface{}{"capacity": 100}},
			}}),
			tmpl(map[string]interface{}{"localDiskFlag": false, "blockDevices": []interface{}{
				map[string]interface{}{"device": "2", "diskImage": map[string]interface{}{"capacity": 250}},
			}}),
		},
		"networkComponents": []interface{}{
			tmpl(map[string]interface{}{"networkComponents": []interface{}{map[string]interface{}{"maxSpeed": 1000}}}),
			tmpl(map[string]interface{}{"networkComponents": []interface{}{map[string]interface{}{"maxSpeed": 100}}}),
		},
	}
}

func TestSummarizeCreateOptions_All(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "getCreateObjectOptions", createObjectOptionsFixture())

	opts, err := m.CreateObjectOptions(context.Background())
	require.NoError(t, err)

	rows := SummarizeCreateOptions(opts, OptionSelection{})
	assert.Equal(t, []OptionRow{
		{"datacenter", "ams01,dal05"},
		{"cpus (private)", "2"},
		{"cpus (standard)", "1,2"},
		{"memory", "1024,2048"},
		{"os (CENTOS)", "CENTOS_7_64"},
		{"os (UBUNTU)", "UBUNTU_22_64\nUBUNTU_LATEST"},
		{"local disk(0)", "25"},
		{"san disk(0)", "100"},
		{"san disk(2)", "250"},
		{"nic", "100,1000"},
	}, rows)
}

func TestSummarizeCreateOptions_Selection(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "getCreateObjectOptions", createObjectOptionsFixture())

	opts, err := m.CreateObjectOptions(context.Background())
	require.NoError(t, err)

	rows := SummarizeCreateOptions(opts, OptionSelection{Memory: true, NIC: true})
	assert.Equal(t, []OptionRow{{"memory", "1024,2048"}, {"nic", "100,1000"}}, rows)
}

package cci

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
	"slcli/internal/testing/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGuard wires the manager's resolver to a prompter reading input.
func newGuard(m *Manager, input string) (*guard.Guard, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return guard.New(m.Resolver(), guard.NewPrompter(strings.NewReader(input), out)), out
}

func TestActions_InvokeExpectedMethod(t *testing.T) {
	tests := []struct {
		name   string
		action func(m *Manager) guard.Action[bool]
		method string
	}{
		{"soft power off", func(m *Manager) guard.Action[bool] { return m.PowerOffAction(false) }, "powerOffSoft"},
		{"hard power off", func(m *Manager) guard.Action[bool] { return m.PowerOffAction(true) }, "powerOff"},
		{"power on", func(m *Manager) guard.Action[bool] { return m.PowerOnAction() }, "powerOn"},
		{"reboot default", func(m *Manager) guard.Action[bool] { return m.RebootAction(RebootDefault) }, "rebootDefault"},
		{"reboot soft", func(m *Manager) guard.Action[bool] { return m.RebootAction(RebootSoft) }, "rebootSoft"},
		{"reboot hard", func(m *Manager) guard.Action[bool] { return m.RebootAction(RebootHard) }, "rebootHard"},
		{"pause", func(m *Manager) guard.Action[bool] { return m.PauseAction() }, "pause"},
		{"resume", func(m *Manager) guard.Action[bool] { return m.ResumeAction() }, "resume"},
		{"cancel", func(m *Manager) guard.Action[bool] { return m.CancelAction() }, "deleteObject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, api := newTestManager(t)
			api.Respond(softlayer.ServiceVirtualGuest, tt.method, true)
			g, out := newGuard(m, "")

			ok, err := guard.Execute(context.Background(), g, "1234", tt.action(m), true)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Empty(t, out.String())

			calls := api.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.method, calls[0].Method)
			assert.Equal(t, 1234, calls[0].ID)
		})
	}
}

func TestActions_DeclinedMakesNoMutation(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "powerOffSoft", true)
	g, out := newGuard(m, "n\n")

	_, err := guard.Execute(context.Background(), g, "1234", m.PowerOffAction(false), false)
	var aborted *guard.AbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, 0, api.Count(softlayer.ServiceVirtualGuest, "powerOffSoft"))
	assert.Contains(t, out.String(), "This will power off the CCI with id 1234. Continue? [y/N]: ")
}

func TestCancel_StrictConfirmation(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "deleteObject", true)

	g, _ := newGuard(m, "yes\n")
	_, err := guard.Execute(context.Background(), g, "55", m.CancelAction(), false)
	var aborted *guard.AbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, 0, api.Count(softlayer.ServiceVirtualGuest, "deleteObject"))

	g, out := newGuard(m, "55\n")
	_, err = guard.Execute(context.Background(), g, "55", m.CancelAction(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, api.Count(softlayer.ServiceVirtualGuest, "deleteObject"))
	assert.Contains(t, out.String(), "cannot be undone")
}

func TestAmbiguousTokenNeverMutates(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceAccount, "getVirtualGuests", []map[string]interface{}{{"id": 101}, {"id": 202}})
	api.Respond(softlayer.ServiceVirtualGuest, "powerOffSoft", true)
	g, _ := newGuard(m, "y\n")

	_, err := guard.Execute(context.Background(), g, "web01", m.PowerOffAction(false), true)
	var ambiguous *guard.AmbiguousIdentifierError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []int{101, 202}, ambiguous.Candidates)
	assert.Equal(t, 0, api.Count(softlayer.ServiceVirtualGuest, "powerOffSoft"))
}

func TestRemoteErrorPassesThrough(t *testing.T) {
	m, api := newTestManager(t)
	api.Fail(softlayer.ServiceVirtualGuest, "pause", "SoftLayer_Exception_Public", "Guest is not running.")
	g, _ := newGuard(m, "")

	_, err := guard.Execute(context.Background(), g, "9", m.PauseAction(), true)
	var remote *softlayer.RemoteOperationError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Guest is not running.", remote.Message)
	assert.Equal(t, 1, api.Count(softlayer.ServiceVirtualGuest, "pause"))
}

func TestReloadAction_Config(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "reloadOperatingSystem", "1")
	g, _ := newGuard(m, "")

	_, err := guard.Execute(context.Background(), g, "9", m.ReloadAction("https://example.com/post.sh", []int{4, 5}), true)
	require.NoError(t, err)

	calls := api.CallsTo(softlayer.ServiceVirtualGuest, "reloadOperatingSystem")
	require.Len(t, calls, 1)
	var token string
	require.NoError(t, calls[0].Param(0, &token))
	assert.Equal(t, "FORCE", token)
	assert.JSONEq(t, `{"customProvisionScriptUri":"https://example.com/post.sh","sshKeyIds":[4,5]}`, string(calls[0].Parameters[1]))
}

func TestCaptureAction_DiskSelection(t *testing.T) {
	tests := []struct {
		name     string
		allDisks bool
		devices  []string
	}{
		{name: "boot disk only", allDisks: false, devices: []string{"0"}},
		{name: "all disks except swap", allDisks: true, devices: []string{"0", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, api := newTestManager(t)
			api.Respond(softlayer.ServiceVirtualGuest, "getObject", map[string]interface{}{
				"id": 9,
				"blockDevices": []interface{}{
					map[string]interface{}{"id": 1, "device": "0"},
					map[string]interface{}{"id": 2, "device": "1"},
					map[string]interface{}{"id": 3, "device": "2"},
				},
			})
			api.Respond(softlayer.ServiceVirtualGuest, "createArchiveTransaction", map[string]interface{}{
				"id": 555, "guestId": 9, "createDate": "2026-10-19T09:30:00-05:00",
				"transactionStatus": map[string]interface{}{"name": "CLONE_CCI", "friendlyName": "Cloning"},
			})
			g, _ := newGuard(m, "")

			txn, err := guard.Execute(context.Background(), g, "9", m.CaptureAction("golden", tt.allDisks, "base image"), true)
			require.NoError(t, err)
			assert.Equal(t, 555, txn.ID)
			assert.Equal(t, "Cloning", txn.StatusName())

			call := api.CallsTo(softlayer.ServiceVirtualGuest, "createArchiveTransaction")[0]
			var name, note string
			var disks []softlayer.BlockDevice
			require.NoError(t, call.Param(0, &name))
			require.NoError(t, call.Param(1, &disks))
			require.NoError(t, call.Param(2, &note))
			assert.Equal(t, "golden", name)
			assert.Equal(t, "base image", note)

			var devices []string
			for _, d := range disks {
				devices = append(devices, d.Device)
			}
			assert.Equal(t, tt.devices, devices)
		})
	}
}

func TestEditAction(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "setUserMetadata", true)
	api.Respond(softlayer.ServiceVirtualGuest, "editObject", false)
	g, _ := newGuard(m, "")

	ok, err := guard.Execute(context.Background(), g, "9", m.EditAction(EditOptions{Hostname: "web02", UserData: "role=web"}), true)
	require.NoError(t, err)
	assert.False(t, ok)

	meta := api.CallsTo(softlayer.ServiceVirtualGuest, "setUserMetadata")
	require.Len(t, meta, 1)
	assert.JSONEq(t, `["role=web"]`, string(meta[0].Parameters[0]))

	edit := api.CallsTo(softlayer.ServiceVirtualGuest, "editObject")
	require.Len(t, edit, 1)
	assert.JSONEq(t, `{"hostname":"web02"}`, string(edit[0].Parameters[0]))
}

func TestEditAction_UserDataOnlySkipsEditObject(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "setUserMetadata", true)
	g, _ := newGuard(m, "")

	ok, err := guard.Execute(context.Background(), g, "9", m.EditAction(EditOptions{UserData: "x"}), true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, api.Count(softlayer.ServiceVirtualGuest, "editObject"))
}

func TestPortSpeedAction(t *testing.T) {
	m, api := newTestManager(t)
	api.Handle(softlayer.ServiceVirtualGuest, "setPrivateNetworkInterfaceSpeed", func(c mock.Call) (interface{}, error) {
		var speed int
		if err := c.Param(0, &speed); err != nil {
			return nil, err
		}
		return speed == 100, nil
	})
	g, out := newGuard(m, "y\n")

	ok, err := guard.Execute(context.Background(), g, "9", m.PortSpeedAction(false, 100), false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "private port speed of the CCI with id 9 to 100 Mbps")
}

func TestValidatePortSpeed(t *testing.T) {
	for _, speed := range ValidPortSpeeds {
		assert.NoError(t, ValidatePortSpeed(speed))
	}
	var validation *guard.ValidationError
	assert.ErrorAs(t, ValidatePortSpeed(42), &validation)
}

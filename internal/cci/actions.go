package cci

import (
	"context"
	"fmt"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
)

// RebootMode selects the reboot procedure.
type RebootMode int

const (
	// RebootDefault lets SoftLayer choose between a soft and hard reboot.
	RebootDefault RebootMode = iota
	RebootSoft
	RebootHard
)

// ValidPortSpeeds are the accepted nic-edit speeds in Mbps; 0 disables the port.
var ValidPortSpeeds = []int{0, 10, 100, 1000, 10000}

func continuePrompt(verb string) func(int) string {
	return func(id int) string {
		return fmt.Sprintf("This will %s the CCI with id %d. Continue?", verb, id)
	}
}

// CancelAction cancels (deletes) a guest. It cannot be undone, so the guest
// ID must be typed back to confirm.
func (m *Manager) CancelAction() guard.Action[bool] {
	return guard.Action[bool]{
		Name:       "cancel",
		Strictness: guard.Strict,
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, "deleteObject")
		},
	}
}

// PowerOffAction powers a guest off, gracefully unless hard is set.
func (m *Manager) PowerOffAction(hard bool) guard.Action[bool] {
	method := "powerOffSoft"
	if hard {
		method = "powerOff"
	}
	return guard.Action[bool]{
		Name:   "power-off",
		Prompt: continuePrompt("power off"),
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, method)
		},
	}
}

// PowerOnAction boots a guest.
func (m *Manager) PowerOnAction() guard.Action[bool] {
	return guard.Action[bool]{
		Name:   "power-on",
		Prompt: continuePrompt("power on"),
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, "powerOn")
		},
	}
}

// RebootAction reboots a guest.
func (m *Manager) RebootAction(mode RebootMode) guard.Action[bool] {
	method := "rebootDefault"
	switch mode {
	case RebootSoft:
		method = "rebootSoft"
	case RebootHard:
		method = "rebootHard"
	}
	return guard.Action[bool]{
		Name:   "reboot",
		Prompt: continuePrompt("reboot"),
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, method)
		},
	}
}

// PauseAction pauses a running guest.
func (m *Manager) PauseAction() guard.Action[bool] {
	return guard.Action[bool]{
		Name:   "pause",
		Prompt: continuePrompt("pause"),
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, "pause")
		},
	}
}

// ResumeAction resumes a paused guest.
func (m *Manager) ResumeAction() guard.Action[bool] {
	return guard.Action[bool]{
		Name:   "resume",
		Prompt: continuePrompt("resume"),
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, "resume")
		},
	}
}

// reloadConfig is the configuration of reloadOperatingSystem.
type reloadConfig struct {
	CustomProvisionScriptURI string `json:"customProvisionScriptUri,omitempty"`
	SSHKeyIDs                []int  `json:"sshKeyIds,omitempty"`
}

// ReloadAction reinstalls the operating system of a guest from its current
// configuration, optionally with a post-install script and SSH keys. Like
// cancel, it requires the guest ID to be typed back.
func (m *Manager) ReloadAction(postInstallURI string, sshKeyIDs []int) guard.Action[bool] {
	config := reloadConfig{CustomProvisionScriptURI: postInstallURI, SSHKeyIDs: sshKeyIDs}
	return guard.Action[bool]{
		Name:       "reload",
		Strictness: guard.Strict,
		Invoke: func(ctx context.Context, id int) (bool, error) {
			if err := m.call(ctx, id, "reloadOperatingSystem", nil, "FORCE", config); err != nil {
				return false, err
			}
			return true, nil
		},
	}
}

// CaptureAction creates an image from the boot disk of a guest, or from all
// of its disks except swap when allDisks is set.
func (m *Manager) CaptureAction(name string, allDisks bool, note string) guard.Action[*softlayer.Transaction] {
	return guard.Action[*softlayer.Transaction]{
		Name:   "capture",
		Prompt: continuePrompt("capture an image of"),
		Invoke: func(ctx context.Context, id int) (*softlayer.Transaction, error) {
			guest, err := m.getWithMask(ctx, id, "id,blockDevices[id,device,diskImage[capacity]]")
			if err != nil {
				return nil, err
			}

			disks := make([]softlayer.BlockDevice, 0, len(guest.BlockDevices))
			for _, disk := range guest.BlockDevices {
				if (allDisks && disk.Device != "1") || disk.Device == "0" {
					disks = append(disks, disk)
				}
			}

			var txn softlayer.Transaction
			if err := m.call(ctx, id, "createArchiveTransaction", &txn, name, disks, note); err != nil {
				return nil, err
			}
			return &txn, nil
		},
	}
}

// EditOptions holds the guest properties to change. Empty fields are left
// untouched.
type EditOptions struct {
	Hostname string
	Domain   string
	Notes    string
	UserData string
}

// Empty reports whether nothing would change.
func (o EditOptions) Empty() bool {
	return o == EditOptions{}
}

// EditAction updates hostname, domain, notes and user data. It reports
// false when SoftLayer rejects the edit.
func (m *Manager) EditAction(opts EditOptions) guard.Action[bool] {
	return guard.Action[bool]{
		Name:   "edit",
		Prompt: continuePrompt("update"),
		Invoke: func(ctx context.Context, id int) (bool, error) {
			if opts.UserData != "" {
				if _, err := m.callBool(ctx, id, "setUserMetadata", []string{opts.UserData}); err != nil {
					return false, err
				}
			}

			if opts.Hostname == "" && opts.Domain == "" && opts.Notes == "" {
				return true, nil
			}
			return m.callBool(ctx, id, "editObject", softlayer.VirtualGuest{
				Hostname: opts.Hostname,
				Domain:   opts.Domain,
				Notes:    opts.Notes,
			})
		},
	}
}

// ValidatePortSpeed checks speed against ValidPortSpeeds.
func ValidatePortSpeed(speed int) error {
	for _, s := range ValidPortSpeeds {
		if s == speed {
			return nil
		}
	}
	return guard.Invalid("speed", "%d is not one of 0, 10, 100, 1000, 10000", speed)
}

// PortSpeedAction sets the public or private interface speed in Mbps.
func (m *Manager) PortSpeedAction(public bool, speed int) guard.Action[bool] {
	method, side := "setPrivateNetworkInterfaceSpeed", "private"
	if public {
		method, side = "setPublicNetworkInterfaceSpeed", "public"
	}
	return guard.Action[bool]{
		Name: "nic-edit",
		Prompt: func(id int) string {
			return fmt.Sprintf("This will set the %s port speed of the CCI with id %d to %d Mbps. Continue?", side, id, speed)
		},
		Invoke: func(ctx context.Context, id int) (bool, error) {
			return m.callBool(ctx, id, method, speed)
		},
	}
}

package cci

import (
	"context"
	"strconv"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
	"slcli/pkg/logging"
	slstrings "slcli/pkg/strings"

	"github.com/google/uuid"
)

// CreateOptions describes a guest to order.
type CreateOptions struct {
	Hostname string
	Domain   string
	CPUs     int
	// MemoryMB is the memory size in megabytes.
	MemoryMB int
	Hourly   bool
	Monthly  bool
	// OSCode and ImageID are mutually exclusive.
	OSCode  string
	ImageID string

	Datacenter string
	Dedicated  bool
	Private    bool
	// SAN selects SAN storage instead of local disk for all disks.
	SAN bool
	// Disks are capacities in GB; the first one is the boot disk.
	Disks    []int
	NICSpeed int
	UserData string
	// PostInstallURI is downloaded after provisioning.
	PostInstallURI string
	// SSHKeyIDs are resolved SSH key IDs.
	SSHKeyIDs   []int
	PublicVLAN  int
	PrivateVLAN int
}

// Validate checks required and mutually exclusive options.
func (o *CreateOptions) Validate() error {
	var missing []string
	if o.Hostname == "" {
		missing = append(missing, "--hostname")
	}
	if o.Domain == "" {
		missing = append(missing, "--domain")
	}
	if o.CPUs <= 0 {
		missing = append(missing, "--cpu")
	}
	if o.MemoryMB <= 0 {
		missing = append(missing, "--memory")
	}
	if len(missing) > 0 {
		return guard.Invalidf("missing required options: %s", slstrings.Listing(missing, ","))
	}

	if o.Hourly && o.Monthly {
		return guard.Invalidf("[--hourly] not allowed with [--monthly]")
	}
	if !o.Hourly && !o.Monthly {
		return guard.Invalidf("one of [--hourly | --monthly] is required")
	}
	if o.OSCode != "" && o.ImageID != "" {
		return guard.Invalidf("[-o | --os] not allowed with [--image]")
	}
	if o.OSCode == "" && o.ImageID == "" {
		return guard.Invalidf("one of [--os | --image] is required")
	}
	if o.ImageID != "" {
		if _, err := uuid.Parse(o.ImageID); err != nil {
			return guard.Invalid("image", "%q is not an image GUID", o.ImageID)
		}
	}
	for _, disk := range o.Disks {
		if disk <= 0 {
			return guard.Invalid("disk", "capacity %d must be positive", disk)
		}
	}
	return nil
}

// Template builds the createObject template for o.
func (o *CreateOptions) Template() softlayer.VirtualGuest {
	localDisk := !o.SAN
	tmpl := softlayer.VirtualGuest{
		Hostname:                     o.Hostname,
		Domain:                       o.Domain,
		StartCPUs:                    o.CPUs,
		MaxMemory:                    o.MemoryMB,
		HourlyBillingFlag:            o.Hourly && !o.Monthly,
		LocalDiskFlag:                &localDisk,
		DedicatedAccountHostOnlyFlag: o.Dedicated,
		PrivateNetworkOnlyFlag:       o.Private,
		PostInstallScriptURI:         o.PostInstallURI,
	}

	if o.ImageID != "" {
		tmpl.BlockDeviceTemplateGroup = &softlayer.ImageTemplateGroup{GlobalIdentifier: o.ImageID}
	} else {
		tmpl.OperatingSystemReferenceCode = o.OSCode
	}
	if o.Datacenter != "" {
		tmpl.Datacenter = &softlayer.Location{Name: o.Datacenter}
	}
	if o.PublicVLAN != 0 {
		tmpl.PrimaryNetworkComponent = &softlayer.NetworkComponent{
			NetworkVlan: &softlayer.NetworkVlan{ID: o.PublicVLAN},
		}
	}
	if o.PrivateVLAN != 0 {
		tmpl.PrimaryBackendNetworkComp = &softlayer.NetworkComponent{
			NetworkVlan: &softlayer.NetworkVlan{ID: o.PrivateVLAN},
		}
	}
	if o.UserData != "" {
		tmpl.UserData = []softlayer.UserData{{Value: o.UserData}}
	}
	if o.NICSpeed != 0 {
		tmpl.NetworkComponents = []softlayer.NetworkComponent{{MaxSpeed: o.NICSpeed}}
	}

	// Device 1 is reserved for swap, so additional disks start at 2.
	for i, capacity := range o.Disks {
		device := "0"
		if i > 0 {
			device = strconv.Itoa(i + 1)
		}
		tmpl.BlockDevices = append(tmpl.BlockDevices, softlayer.BlockDevice{
			Device:    device,
			DiskImage: &softlayer.DiskImage{Capacity: capacity},
		})
	}

	for _, id := range o.SSHKeyIDs {
		tmpl.SSHKeys = append(tmpl.SSHKeys, softlayer.SSHKeyRef{ID: id})
	}
	return tmpl
}

// ApplyLike fills every unset option from an existing guest. Billing and
// OS/image choices already made in o are kept.
func (o *CreateOptions) ApplyLike(like *softlayer.VirtualGuest) {
	if o.Hostname == "" {
		o.Hostname = like.Hostname
	}
	if o.Domain == "" {
		o.Domain = like.Domain
	}
	if o.CPUs == 0 {
		o.CPUs = like.MaxCPU
	}
	if o.MemoryMB == 0 {
		o.MemoryMB = like.MaxMemory
	}
	if !o.Hourly && !o.Monthly {
		o.Hourly = like.HourlyBillingFlag
		o.Monthly = !like.HourlyBillingFlag
	}
	if o.Datacenter == "" {
		o.Datacenter = like.DatacenterName()
	}
	if o.NICSpeed == 0 && len(like.NetworkComponents) > 0 {
		o.NICSpeed = like.NetworkComponents[0].MaxSpeed
	}
	if o.UserData == "" && len(like.UserData) > 0 {
		o.UserData = like.UserData[0].Value
	}
	if o.PostInstallURI == "" {
		o.PostInstallURI = like.PostInstallScriptURI
	}
	o.Dedicated = o.Dedicated || like.DedicatedAccountHostOnlyFlag
	o.Private = o.Private || like.PrivateNetworkOnlyFlag

	if o.OSCode == "" && o.ImageID == "" {
		if like.BlockDeviceTemplateGroup != nil && like.BlockDeviceTemplateGroup.GlobalIdentifier != "" {
			o.ImageID = like.BlockDeviceTemplateGroup.GlobalIdentifier
		} else if desc := like.OperatingSystem.Description(); desc != nil {
			o.OSCode = desc.ReferenceCode
		}
	}
}

// Create orders the guest described by o.
func (m *Manager) Create(ctx context.Context, o CreateOptions) (*softlayer.VirtualGuest, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	var guest softlayer.VirtualGuest
	err := m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceVirtualGuest,
		Method:     "createObject",
		Parameters: []interface{}{o.Template()},
	}, &guest)
	if err != nil {
		return nil, err
	}
	logging.Info("CCI", "ordered guest %d (%s.%s)", guest.ID, o.Hostname, o.Domain)
	return &guest, nil
}

// Verify prices the order described by o without placing it.
func (m *Manager) Verify(ctx context.Context, o CreateOptions) (*softlayer.OrderContainer, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	var order softlayer.OrderContainer
	err := m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceVirtualGuest,
		Method:     "generateOrderTemplate",
		Parameters: []interface{}{o.Template()},
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// QuoteLine is one priced item of an order quote.
type QuoteLine struct {
	Item string
	Cost softlayer.Decimal
}

// Quote summarizes order prices for the chosen billing rate and returns
// the lines and their total.
func Quote(order *softlayer.OrderContainer, hourly bool) ([]QuoteLine, softlayer.Decimal) {
	var lines []QuoteLine
	var total softlayer.Decimal
	for _, price := range order.Prices {
		cost := price.RecurringFee
		if hourly {
			cost = price.HourlyRecurringFee
		}
		item := ""
		if price.Item != nil {
			item = price.Item.Description
		}
		lines = append(lines, QuoteLine{Item: item, Cost: cost})
		total += cost
	}
	return lines, total
}

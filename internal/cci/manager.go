package cci

import (
	"context"
	"net"
	"time"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
	"slcli/pkg/logging"
)

// Kind names guests in resolution errors.
const Kind = "CCI"

// DefaultPollInterval is the readiness poll interval.
const DefaultPollInterval = 10 * time.Second

const (
	listMask = "id,globalIdentifier,hostname,domain,fullyQualifiedDomainName," +
		"primaryBackendIpAddress,primaryIpAddress,powerState,maxCpu,maxMemory,datacenter," +
		"activeTransaction.transactionStatus[friendlyName,name],status"

	detailMask = "id,globalIdentifier,fullyQualifiedDomainName,hostname,domain," +
		"createDate,modifyDate,provisionDate,notes,dedicatedAccountHostOnlyFlag," +
		"privateNetworkOnlyFlag,primaryBackendIpAddress,primaryIpAddress," +
		"networkComponents[id,maxSpeed],powerState,status,maxCpu,maxMemory,datacenter," +
		"activeTransaction[id,transactionStatus[friendlyName,name]],blockDevices[id,device,diskImage[capacity]]," +
		"blockDeviceTemplateGroup[globalIdentifier],postInstallScriptUri,userData," +
		"operatingSystem.passwords[username,password]," +
		"operatingSystem.softwareLicense.softwareDescription[name,version,referenceCode]," +
		"hourlyBillingFlag,billingItem.recurringFee,tagReferences[id,tag[name]]," +
		"networkVlans[id,vlanNumber,networkSpace]"
)

// Options configures a Manager.
type Options struct {
	// PollInterval spaces readiness checks. Defaults to DefaultPollInterval.
	PollInterval time.Duration
	// Now stamps upgrade orders. Defaults to time.Now.
	Now func() time.Time
}

// Manager performs guest operations against the SoftLayer API.
type Manager struct {
	caller       softlayer.Caller
	pollInterval time.Duration
	now          func() time.Time
}

// NewManager creates a Manager.
func NewManager(caller softlayer.Caller, opts Options) *Manager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{caller: caller, pollInterval: opts.PollInterval, now: opts.Now}
}

// ListOptions filters List. String filters accept the query syntax of
// softlayer.QueryFilter.
type ListOptions struct {
	Hourly     bool
	Monthly    bool
	Hostname   string
	Domain     string
	Datacenter string
	CPUs       string
	Memory     string
	NICSpeed   string
	PublicIP   string
	PrivateIP  string
	// Tags match guests carrying any of the tags.
	Tags []string
	// Mask overrides the default object mask.
	Mask string
}

// List returns the account's guests matching opts.
func (m *Manager) List(ctx context.Context, opts ListOptions) ([]softlayer.VirtualGuest, error) {
	method := "getVirtualGuests"
	if opts.Hourly != opts.Monthly {
		if opts.Hourly {
			method = "getHourlyVirtualGuests"
		} else {
			method = "getMonthlyVirtualGuests"
		}
	}

	filter := softlayer.Filter{}
	set := func(path, value string) {
		if value != "" {
			filter.Set("virtualGuests."+path, softlayer.QueryFilter(value))
		}
	}
	set("hostname", opts.Hostname)
	set("domain", opts.Domain)
	set("datacenter.name", opts.Datacenter)
	set("maxCpu", opts.CPUs)
	set("maxMemory", opts.Memory)
	set("networkComponents.maxSpeed", opts.NICSpeed)
	set("primaryIpAddress", opts.PublicIP)
	set("primaryBackendIpAddress", opts.PrivateIP)
	if len(opts.Tags) > 0 {
		filter.Set("virtualGuests.tagReferences.tag.name", softlayer.InFilter(opts.Tags))
	}

	mask := opts.Mask
	if mask == "" {
		mask = listMask
	}

	var guests []softlayer.VirtualGuest
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceAccount,
		Method:  method,
		Mask:    mask,
		Filter:  filter,
	}, &guests)
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// Get returns the full record of guest id.
func (m *Manager) Get(ctx context.Context, id int) (*softlayer.VirtualGuest, error) {
	return m.getWithMask(ctx, id, detailMask)
}

func (m *Manager) getWithMask(ctx context.Context, id int, mask string) (*softlayer.VirtualGuest, error) {
	var guest softlayer.VirtualGuest
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceVirtualGuest,
		Method:  "getObject",
		ID:      id,
		Mask:    mask,
	}, &guest)
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// ReverseDomainRecords returns the reverse DNS zones (with records) that
// cover the guest's addresses.
func (m *Manager) ReverseDomainRecords(ctx context.Context, id int) ([]softlayer.Domain, error) {
	var domains []softlayer.Domain
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceVirtualGuest,
		Method:  "getReverseDomainRecords",
		ID:      id,
	}, &domains)
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// CreateObjectOptions returns the choices available when ordering a guest.
func (m *Manager) CreateObjectOptions(ctx context.Context) (*softlayer.CreateObjectOptions, error) {
	var opts softlayer.CreateObjectOptions
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceVirtualGuest,
		Method:  "getCreateObjectOptions",
	}, &opts)
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

// Resolver resolves guest identifiers by ID, hostname or IP address.
func (m *Manager) Resolver() *guard.Resolver {
	return guard.NewResolver(Kind, m.idsFromHostname, m.idsFromIP)
}

func (m *Manager) idsFromHostname(ctx context.Context, hostname string) ([]int, error) {
	guests, err := m.List(ctx, ListOptions{Hostname: hostname, Mask: "id"})
	if err != nil {
		return nil, err
	}
	return guestIDs(guests), nil
}

// idsFromIP matches the primary public address first and falls back to the
// primary backend address.
func (m *Manager) idsFromIP(ctx context.Context, ip string) ([]int, error) {
	if net.ParseIP(ip) == nil {
		return nil, nil
	}

	guests, err := m.List(ctx, ListOptions{PublicIP: ip, Mask: "id"})
	if err != nil {
		return nil, err
	}
	if len(guests) > 0 {
		return guestIDs(guests), nil
	}

	guests, err = m.List(ctx, ListOptions{PrivateIP: ip, Mask: "id"})
	if err != nil {
		return nil, err
	}
	return guestIDs(guests), nil
}

func guestIDs(guests []softlayer.VirtualGuest) []int {
	ids := make([]int, 0, len(guests))
	for _, g := range guests {
		ids = append(ids, g.ID)
	}
	return ids
}

// call invokes a guest method and decodes the result into out.
func (m *Manager) call(ctx context.Context, id int, method string, out interface{}, params ...interface{}) error {
	logging.Debug("CCI", "calling %s on guest %d", method, id)
	return m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceVirtualGuest,
		Method:     method,
		ID:         id,
		Parameters: params,
	}, out)
}

// callBool invokes a guest method that answers true or false.
func (m *Manager) callBool(ctx context.Context, id int, method string, params ...interface{}) (bool, error) {
	var ok bool
	if err := m.call(ctx, id, method, &ok, params...); err != nil {
		return false, err
	}
	return ok, nil
}

package softlayer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Service names used by slcli.
const (
	ServiceAccount             = "SoftLayer_Account"
	ServiceVirtualGuest        = "SoftLayer_Virtual_Guest"
	ServiceDNSDomain           = "SoftLayer_Dns_Domain"
	ServiceDNSResourceRecord   = "SoftLayer_Dns_Domain_ResourceRecord"
	ServiceProductOrder        = "SoftLayer_Product_Order"
	ServiceSecuritySSHKey      = "SoftLayer_Security_Ssh_Key"
	ContainerGuestUpgradeOrder = "SoftLayer_Container_Product_Order_Virtual_Guest_Upgrade"
	maintenanceWindowProperty  = "MAINTENANCE_WINDOW"
)

// Decimal decodes SoftLayer monetary and capacity values, which the API
// returns either as JSON numbers or as numeric strings.
type Decimal float64

// UnmarshalJSON accepts 1.5, "1.5", "" and null.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %s: %w", data, err)
	}
	*d = Decimal(f)
	return nil
}

// MarshalJSON writes the value as a JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

// String formats the value with two decimals, the way prices are shown.
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}

// Location is a datacenter.
type Location struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	LongName string `json:"longName,omitempty"`
}

// Status is a keyName/name pair used for guest status and power state.
type Status struct {
	KeyName string `json:"keyName,omitempty"`
	Name    string `json:"name,omitempty"`
}

// TransactionStatus describes the step a provisioning transaction is in.
type TransactionStatus struct {
	Name         string `json:"name,omitempty"`
	FriendlyName string `json:"friendlyName,omitempty"`
}

// Transaction is a provisioning, reload or archive transaction.
type Transaction struct {
	ID                int                `json:"id,omitempty"`
	GuestID           int                `json:"guestId,omitempty"`
	CreateDate        string             `json:"createDate,omitempty"`
	TransactionStatus *TransactionStatus `json:"transactionStatus,omitempty"`
}

// StatusName returns the friendly transaction status, falling back to the
// internal name.
func (t *Transaction) StatusName() string {
	if t == nil || t.TransactionStatus == nil {
		return ""
	}
	if t.TransactionStatus.FriendlyName != "" {
		return t.TransactionStatus.FriendlyName
	}
	return t.TransactionStatus.Name
}

// SoftwareDescription names an operating system.
type SoftwareDescription struct {
	Name          string `json:"name,omitempty"`
	Version       string `json:"version,omitempty"`
	ReferenceCode string `json:"referenceCode,omitempty"`
}

// SoftwareLicense wraps a SoftwareDescription.
type SoftwareLicense struct {
	SoftwareDescription *SoftwareDescription `json:"softwareDescription,omitempty"`
}

// Password is an operating system credential.
type Password struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// OperatingSystem is the OS installed on a guest.
type OperatingSystem struct {
	SoftwareLicense *SoftwareLicense `json:"softwareLicense,omitempty"`
	Passwords       []Password       `json:"passwords,omitempty"`
}

// Description returns the software description or nil.
func (o *OperatingSystem) Description() *SoftwareDescription {
	if o == nil || o.SoftwareLicense == nil {
		return nil
	}
	return o.SoftwareLicense.SoftwareDescription
}

// NetworkVlan is a VLAN attached to a guest.
type NetworkVlan struct {
	ID           int    `json:"id,omitempty"`
	VlanNumber   int    `json:"vlanNumber,omitempty"`
	NetworkSpace string `json:"networkSpace,omitempty"`
}

// NetworkComponent is a guest network interface.
type NetworkComponent struct {
	MaxSpeed    int          `json:"maxSpeed,omitempty"`
	NetworkVlan *NetworkVlan `json:"networkVlan,omitempty"`
}

// Tag is an account tag.
type Tag struct {
	Name string `json:"name,omitempty"`
}

// TagReference links a tag to a resource.
type TagReference struct {
	Tag *Tag `json:"tag,omitempty"`
}

// BillingItem carries the recurring fee of a guest.
type BillingItem struct {
	ID           int     `json:"id,omitempty"`
	RecurringFee Decimal `json:"recurringFee,omitempty"`
}

// DiskImage is the image backing a block device.
type DiskImage struct {
	Capacity int `json:"capacity,omitempty"`
}

// BlockDevice is a guest disk.
type BlockDevice struct {
	ID        int        `json:"id,omitempty"`
	Device    string     `json:"device,omitempty"`
	DiskImage *DiskImage `json:"diskImage,omitempty"`
}

// ImageTemplateGroup is a block device template (image).
type ImageTemplateGroup struct {
	GlobalIdentifier string `json:"globalIdentifier,omitempty"`
}

// UserData is a user metadata blob.
type UserData struct {
	Value string `json:"value,omitempty"`
}

// SSHKeyRef references an SSH key by ID in create and reload templates.
type SSHKeyRef struct {
	ID int `json:"id"`
}

// VirtualGuest is a CCI.
type VirtualGuest struct {
	ID                           int                 `json:"id,omitempty"`
	GlobalIdentifier             string              `json:"globalIdentifier,omitempty"`
	Hostname                     string              `json:"hostname,omitempty"`
	Domain                       string              `json:"domain,omitempty"`
	FullyQualifiedDomainName     string              `json:"fullyQualifiedDomainName,omitempty"`
	StartCPUs                    int                 `json:"startCpus,omitempty"`
	MaxCPU                       int                 `json:"maxCpu,omitempty"`
	MaxMemory                    int                 `json:"maxMemory,omitempty"`
	PrimaryIPAddress             string              `json:"primaryIpAddress,omitempty"`
	PrimaryBackendIPAddress      string              `json:"primaryBackendIpAddress,omitempty"`
	HourlyBillingFlag            bool                `json:"hourlyBillingFlag,omitempty"`
	LocalDiskFlag                *bool               `json:"localDiskFlag,omitempty"`
	PrivateNetworkOnlyFlag       bool                `json:"privateNetworkOnlyFlag,omitempty"`
	DedicatedAccountHostOnlyFlag bool                `json:"dedicatedAccountHostOnlyFlag,omitempty"`
	Notes                        string              `json:"notes,omitempty"`
	CreateDate                   string              `json:"createDate,omitempty"`
	ModifyDate                   string              `json:"modifyDate,omitempty"`
	ProvisionDate                string              `json:"provisionDate,omitempty"`
	PostInstallScriptURI         string              `json:"postInstallScriptUri,omitempty"`
	OperatingSystemReferenceCode string              `json:"operatingSystemReferenceCode,omitempty"`
	Datacenter                   *Location           `json:"datacenter,omitempty"`
	Status                       *Status             `json:"status,omitempty"`
	PowerState                   *Status             `json:"powerState,omitempty"`
	ActiveTransaction            *Transaction        `json:"activeTransaction,omitempty"`
	OperatingSystem              *OperatingSystem    `json:"operatingSystem,omitempty"`
	NetworkVlans                 []NetworkVlan       `json:"networkVlans,omitempty"`
	NetworkComponents            []NetworkComponent  `json:"networkComponents,omitempty"`
	PrimaryNetworkComponent      *NetworkComponent   `json:"primaryNetworkComponent,omitempty"`
	PrimaryBackendNetworkComp    *NetworkComponent   `json:"primaryBackendNetworkComponent,omitempty"`
	TagReferences                []TagReference      `json:"tagReferences,omitempty"`
	BillingItem                  *BillingItem        `json:"billingItem,omitempty"`
	BlockDevices                 []BlockDevice       `json:"blockDevices,omitempty"`
	BlockDeviceTemplateGroup     *ImageTemplateGroup `json:"blockDeviceTemplateGroup,omitempty"`
	UserData                     []UserData          `json:"userData,omitempty"`
	SSHKeys                      []SSHKeyRef         `json:"sshKeys,omitempty"`
}

// Tags returns the names of the guest's tags.
func (g *VirtualGuest) Tags() []string {
	var tags []string
	for _, ref := range g.TagReferences {
		if ref.Tag != nil && ref.Tag.Name != "" {
			tags = append(tags, ref.Tag.Name)
		}
	}
	return tags
}

// DatacenterName returns the datacenter short name, or "".
func (g *VirtualGuest) DatacenterName() string {
	if g.Datacenter == nil {
		return ""
	}
	return g.Datacenter.Name
}

// ResourceRecord is a DNS record.
type ResourceRecord struct {
	ID       int    `json:"id,omitempty"`
	DomainID int    `json:"domainId,omitempty"`
	Host     string `json:"host,omitempty"`
	Type     string `json:"type,omitempty"`
	Data     string `json:"data,omitempty"`
	TTL      int    `json:"ttl,omitempty"`
}

// Domain is a DNS zone, forward or reverse.
type Domain struct {
	ID              int              `json:"id,omitempty"`
	Name            string           `json:"name,omitempty"`
	Serial          int              `json:"serial,omitempty"`
	ResourceRecords []ResourceRecord `json:"resourceRecords,omitempty"`
}

// SSHKey is an account SSH key.
type SSHKey struct {
	ID          int    `json:"id,omitempty"`
	Label       string `json:"label,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// ItemCategory groups product items (e.g. guest_core, ram, port_speed).
type ItemCategory struct {
	CategoryCode string `json:"categoryCode,omitempty"`
}

// Item is a product item.
type Item struct {
	ID          int            `json:"id,omitempty"`
	Description string         `json:"description,omitempty"`
	Capacity    Decimal        `json:"capacity,omitempty"`
	Units       string         `json:"units,omitempty"`
	Categories  []ItemCategory `json:"categories,omitempty"`
}

// HasCategory reports whether the item belongs to the category code.
func (i *Item) HasCategory(code string) bool {
	for _, c := range i.Categories {
		if c.CategoryCode == code {
			return true
		}
	}
	return false
}

// ItemPrice is an orderable price for an item.
type ItemPrice struct {
	ID                 int            `json:"id,omitempty"`
	RecurringFee       Decimal        `json:"recurringFee,omitempty"`
	HourlyRecurringFee Decimal        `json:"hourlyRecurringFee,omitempty"`
	Item               *Item          `json:"item,omitempty"`
	Categories         []ItemCategory `json:"categories,omitempty"`
}

// InCategory reports whether the price belongs to the category code.
func (p *ItemPrice) InCategory(code string) bool {
	for _, c := range p.Categories {
		if c.CategoryCode == code {
			return true
		}
	}
	return false
}

// OrderContainer is the result of an order template or verification.
type OrderContainer struct {
	Prices []ItemPrice `json:"prices,omitempty"`
}

// OrderProperty is a name/value pair attached to an order.
type OrderProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UpgradeOrder is the container placed to upgrade a guest.
type UpgradeOrder struct {
	ComplexType   string          `json:"complexType"`
	Prices        []ItemPrice     `json:"prices"`
	VirtualGuests []VirtualGuest  `json:"virtualGuests"`
	Properties    []OrderProperty `json:"properties,omitempty"`
}

// OrderReceipt is returned by placeOrder.
type OrderReceipt struct {
	OrderID   int    `json:"orderId,omitempty"`
	OrderDate string `json:"orderDate,omitempty"`
}

// CreateOption is one entry of getCreateObjectOptions: a partial guest
// template that selects the option.
type CreateOption struct {
	Template VirtualGuest `json:"template"`
}

// CreateObjectOptions lists the choices available when ordering a guest.
type CreateObjectOptions struct {
	Datacenters       []CreateOption `json:"datacenters,omitempty"`
	Processors        []CreateOption `json:"processors,omitempty"`
	Memory            []CreateOption `json:"memory,omitempty"`
	OperatingSystems  []CreateOption `json:"operatingSystems,omitempty"`
	BlockDevices      []CreateOption `json:"blockDevices,omitempty"`
	NetworkComponents []CreateOption `json:"networkComponents,omitempty"`
}

// NewUpgradeOrder builds the upgrade container for guestID.
func NewUpgradeOrder(guestID int, priceIDs []int, maintenanceWindow string) UpgradeOrder {
	prices := make([]ItemPrice, len(priceIDs))
	for i, id := range priceIDs {
		prices[i] = ItemPrice{ID: id}
	}
	return UpgradeOrder{
		ComplexType:   ContainerGuestUpgradeOrder,
		Prices:        prices,
		VirtualGuests: []VirtualGuest{{ID: guestID}},
		Properties: []OrderProperty{
			{Name: maintenanceWindowProperty, Value: maintenanceWindow},
		},
	}
}

// Account is the SoftLayer account the credentials belong to.
type Account struct {
	ID          int    `json:"id,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Email       string `json:"email,omitempty"`
}

package cci

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
	"slcli/pkg/logging"
)

const (
	categoryCores           = "guest_core"
	categoryPrivCores       = "guest_private_core"
	categoryRAM             = "ram"
	categoryPortSpeed       = "port_speed"
	upgradePricesMask       = "id,categories[categoryCode],item[id,capacity,units,description,categories[categoryCode]]"
	maintenanceWindowLayout = "2006-01-02 15:04:05"
)

// UpgradeOptions selects the new guest sizing. Zero fields are unchanged.
type UpgradeOptions struct {
	CPUs int
	// MemoryMB must be a whole number of gigabytes.
	MemoryMB int
	NICSpeed int
	// Private selects dedicated-host cores.
	Private bool
}

// Validate requires at least one change and whole-gigabyte memory.
func (o UpgradeOptions) Validate() error {
	if o.CPUs == 0 && o.MemoryMB == 0 && o.NICSpeed == 0 {
		return guard.Invalidf("at least one of --cpu, --memory or --network is required")
	}
	if o.CPUs < 0 {
		return guard.Invalid("cpu", "%d must be positive", o.CPUs)
	}
	if o.MemoryMB < 0 || o.MemoryMB%1024 != 0 {
		return guard.Invalid("memory", "%d MB is not a whole number of gigabytes", o.MemoryMB)
	}
	if o.NICSpeed < 0 {
		return guard.Invalid("network", "%d must be positive", o.NICSpeed)
	}
	return nil
}

// UpgradeAction orders new CPU, memory or port speed for a guest. SoftLayer
// reboots the guest for CPU and memory changes.
func (m *Manager) UpgradeAction(opts UpgradeOptions) guard.Action[*softlayer.OrderReceipt] {
	return guard.Action[*softlayer.OrderReceipt]{
		Name:   "upgrade",
		Prompt: func(int) string { return "This action will incur charges on your account. Continue?" },
		Invoke: func(ctx context.Context, id int) (*softlayer.OrderReceipt, error) {
			return m.upgrade(ctx, id, opts)
		},
	}
}

func (m *Manager) upgrade(ctx context.Context, id int, opts UpgradeOptions) (*softlayer.OrderReceipt, error) {
	var prices []softlayer.ItemPrice
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceVirtualGuest,
		Method:  "getUpgradeItemPrices",
		ID:      id,
		Mask:    upgradePricesMask,
	}, &prices)
	if err != nil {
		return nil, err
	}

	var priceIDs []int
	if opts.CPUs > 0 {
		priceID, err := findUpgradePrice(prices, "cpus", opts.CPUs, opts.Private)
		if err != nil {
			return nil, err
		}
		priceIDs = append(priceIDs, priceID)
	}
	if opts.MemoryMB > 0 {
		priceID, err := findUpgradePrice(prices, "memory", opts.MemoryMB/1024, false)
		if err != nil {
			return nil, err
		}
		priceIDs = append(priceIDs, priceID)
	}
	if opts.NICSpeed > 0 {
		priceID, err := findUpgradePrice(prices, "nic_speed", opts.NICSpeed, false)
		if err != nil {
			return nil, err
		}
		priceIDs = append(priceIDs, priceID)
	}

	order := softlayer.NewUpgradeOrder(id, priceIDs, m.now().Format(maintenanceWindowLayout))
	if err := m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceProductOrder,
		Method:     "verifyOrder",
		Parameters: []interface{}{order},
	}, nil); err != nil {
		return nil, err
	}

	var receipt softlayer.OrderReceipt
	if err := m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceProductOrder,
		Method:     "placeOrder",
		Parameters: []interface{}{order},
	}, &receipt); err != nil {
		return nil, err
	}
	logging.Info("CCI", "placed upgrade order %d for guest %d", receipt.OrderID, id)
	return &receipt, nil
}

// findUpgradePrice picks the price for option at capacity value.
func findUpgradePrice(prices []softlayer.ItemPrice, option string, value int, private bool) (int, error) {
	categories := map[string][]string{
		"cpus":      {categoryCores, categoryPrivCores},
		"memory":    {categoryRAM},
		"nic_speed": {categoryPortSpeed},
	}[option]

	want := strconv.Itoa(value)
	for _, price := range prices {
		item := price.Item
		if item == nil || strconv.FormatFloat(float64(item.Capacity), 'f', -1, 64) != want {
			continue
		}
		if !priceInAny(&price, categories) {
			continue
		}

		switch option {
		case "cpus":
			isPrivate := item.Units == "PRIVATE_CORE" || item.Units == "DEDICATED_CORE" ||
				price.InCategory(categoryPrivCores) || item.HasCategory(categoryPrivCores)
			if isPrivate == private {
				return price.ID, nil
			}
		case "nic_speed":
			if strings.Contains(item.Description, "Public") {
				return price.ID, nil
			}
		default:
			return price.ID, nil
		}
	}
	return 0, fmt.Errorf("unable to find a price for %s upgrade to %d", option, value)
}

func priceInAny(price *softlayer.ItemPrice, categories []string) bool {
	for _, code := range categories {
		if price.InCategory(code) || price.Item.HasCategory(code) {
			return true
		}
	}
	return false
}

package cci

import (
	"sort"
	"strings"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
)

// SortColumns are the accepted list sort keys.
var SortColumns = []string{"id", "datacenter", "host", "cores", "memory", "primary_ip", "backend_ip"}

// SortGuests orders guests in place by column. Ties keep API order.
func SortGuests(guests []softlayer.VirtualGuest, column string) error {
	var less func(a, b *softlayer.VirtualGuest) bool
	switch strings.ToLower(column) {
	case "id":
		less = func(a, b *softlayer.VirtualGuest) bool { return a.ID < b.ID }
	case "datacenter":
		less = func(a, b *softlayer.VirtualGuest) bool { return a.DatacenterName() < b.DatacenterName() }
	case "", "host":
		less = func(a, b *softlayer.VirtualGuest) bool {
			return a.FullyQualifiedDomainName < b.FullyQualifiedDomainName
		}
	case "cores":
		less = func(a, b *softlayer.VirtualGuest) bool { return a.MaxCPU < b.MaxCPU }
	case "memory":
		less = func(a, b *softlayer.VirtualGuest) bool { return a.MaxMemory < b.MaxMemory }
	case "primary_ip":
		less = func(a, b *softlayer.VirtualGuest) bool { return a.PrimaryIPAddress < b.PrimaryIPAddress }
	case "backend_ip":
		less = func(a, b *softlayer.VirtualGuest) bool { return a.PrimaryBackendIPAddress < b.PrimaryBackendIPAddress }
	default:
		return guard.Invalid("sortby", "%q is not one of %s", column, strings.Join(SortColumns, ", "))
	}

	sort.SliceStable(guests, func(i, j int) bool { return less(&guests[i], &guests[j]) })
	return nil
}

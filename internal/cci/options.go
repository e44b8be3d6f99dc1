package cci

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"slcli/internal/softlayer"
	slstrings "slcli/pkg/strings"
)

// OptionSelection picks the create-options sections to show. When nothing
// is selected every section is shown.
type OptionSelection struct {
	Datacenter bool
	CPU        bool
	Memory     bool
	OS         bool
	Disk       bool
	NIC        bool
}

func (s OptionSelection) all() bool {
	return s == OptionSelection{}
}

// OptionRow is one name/value line of the create-options summary.
type OptionRow struct {
	Name  string
	Value string
}

// SummarizeCreateOptions condenses getCreateObjectOptions into rows.
func SummarizeCreateOptions(opts *softlayer.CreateObjectOptions, sel OptionSelection) []OptionRow {
	all := sel.all()
	var rows []OptionRow

	if all || sel.Datacenter {
		var names []string
		for _, dc := range opts.Datacenters {
			names = append(names, dc.Template.DatacenterName())
		}
		rows = append(rows, OptionRow{"datacenter", slstrings.Listing(names, ",")})
	}

	if all || sel.CPU {
		var private, standard []string
		for _, cpu := range opts.Processors {
			count := strconv.Itoa(cpu.Template.StartCPUs)
			if cpu.Template.DedicatedAccountHostOnlyFlag {
				private = append(private, count)
			} else {
				standard = append(standard, count)
			}
		}
		rows = append(rows,
			OptionRow{"cpus (private)", slstrings.Listing(private, ",")},
			OptionRow{"cpus (standard)", slstrings.Listing(standard, ",")},
		)
	}

	if all || sel.Memory {
		var sizes []string
		for _, mem := range opts.Memory {
			sizes = append(sizes, strconv.Itoa(mem.Template.MaxMemory))
		}
		rows = append(rows, OptionRow{"memory", slstrings.Listing(sizes, ",")})
	}

	if all || sel.OS {
		rows = append(rows, osRows(opts.OperatingSystems)...)
	}

	if all || sel.Disk {
		var local, san []softlayer.CreateOption
		for _, disk := range opts.BlockDevices {
			if flag := disk.Template.LocalDiskFlag; flag != nil && *flag {
				local = append(local, disk)
			} else {
				san = append(san, disk)
			}
		}
		rows = append(rows, diskRows(local, "local")...)
		rows = append(rows, diskRows(san, "san")...)
	}

	if all || sel.NIC {
		var speeds []int
		for _, nic := range opts.NetworkComponents {
			if len(nic.Template.NetworkComponents) > 0 {
				speeds = append(speeds, nic.Template.NetworkComponents[0].MaxSpeed)
			}
		}
		sort.Ints(speeds)
		rows = append(rows, OptionRow{"nic", joinInts(speeds)})
	}

	return rows
}

// osRows groups OS reference codes by their prefix (UBUNTU, CENTOS, ...).
func osRows(options []softlayer.CreateOption) []OptionRow {
	byFamily := make(map[string][]string)
	for _, o := range options {
		code := o.Template.OperatingSystemReferenceCode
		if code == "" {
			continue
		}
		family := code
		if i := strings.Index(code, "_"); i > 0 {
			family = code[:i]
		}
		byFamily[family] = append(byFamily[family], code)
	}

	families := make([]string, 0, len(byFamily))
	for family := range byFamily {
		families = append(families, family)
	}
	sort.Strings(families)

	rows := make([]OptionRow, 0, len(families))
	for _, family := range families {
		codes := byFamily[family]
		sort.Strings(codes)
		rows = append(rows, OptionRow{fmt.Sprintf("os (%s)", family), strings.Join(codes, "\n")})
	}
	return rows
}

// diskRows lists capacities per device slot.
func diskRows(options []softlayer.CreateOption, name string) []OptionRow {
	byDevice := make(map[string][]string)
	for _, o := range options {
		if len(o.Template.BlockDevices) == 0 {
			continue
		}
		block := o.Template.BlockDevices[0]
		capacity := 0
		if block.DiskImage != nil {
			capacity = block.DiskImage.Capacity
		}
		byDevice[block.Device] = append(byDevice[block.Device], strconv.Itoa(capacity))
	}

	devices := make([]string, 0, len(byDevice))
	for device := range byDevice {
		devices = append(devices, device)
	}
	sort.Strings(devices)

	rows := make([]OptionRow, 0, len(devices))
	for _, device := range devices {
		rows = append(rows, OptionRow{fmt.Sprintf("%s disk(%s)", name, device), slstrings.Listing(byDevice[device], ",")})
	}
	return rows
}

func joinInts(values []int) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return strings.Join(out, ",")
}

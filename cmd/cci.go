package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"slcli/internal/cci"
	"slcli/internal/cli"
	"slcli/internal/guard"
	"slcli/internal/softlayer"
	slstrings "slcli/pkg/strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newCCICmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cci",
		Short: "Manage, delete, order compute instances",
		Long: `Manage, delete and order cloud compute instances.

Every <identifier> argument accepts the numeric ID, the hostname or a
public or private IP address of the instance. A hostname or address that
matches more than one instance is rejected.`,
	}
	cmd.AddCommand(
		newCCIListCmd(o),
		newCCIDetailCmd(o),
		newCCICreateOptionsCmd(o),
		newCCICreateCmd(o),
		newCCIReadyCmd(o),
		newCCIReloadCmd(o),
		newCCICancelCmd(o),
		newCCIPowerOffCmd(o),
		newCCIPowerOnCmd(o),
		newCCIRebootCmd(o),
		newCCIPauseCmd(o),
		newCCIResumeCmd(o),
		newCCINICEditCmd(o),
		newCCIDNSCmd(o),
		newCCIEditCmd(o),
		newCCICaptureCmd(o),
		newCCIUpgradeCmd(o),
	)
	return cmd
}

type cciListOptions struct {
	hourly     bool
	monthly    bool
	cpu        string
	domain     string
	datacenter string
	hostname   string
	memory     string
	network    string
	tags       string
	sortBy     string
}

func newCCIListCmd(o *rootOptions) *cobra.Command {
	opts := &cciListOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List CCIs on the account",
		Example: `  slcli cci list
  slcli cci list --hourly -d dal05 --sortby cores
  slcli cci list --tags web,prod -o json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCCIList(cmd, o, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.hourly, "hourly", false, "Show only hourly instances")
	f.BoolVar(&opts.monthly, "monthly", false, "Show only monthly instances")
	f.StringVarP(&opts.cpu, "cpu", "c", "", "Number of CPU cores")
	f.StringVarP(&opts.domain, "domain", "D", "", "Domain portion of the FQDN")
	f.StringVarP(&opts.datacenter, "datacenter", "d", "", "Datacenter shortname")
	f.StringVarP(&opts.hostname, "hostname", "H", "", "Host portion of the FQDN")
	f.StringVarP(&opts.memory, "memory", "m", "", "Memory in mebibytes")
	f.StringVarP(&opts.network, "network", "n", "", "Network port speed in Mbps")
	f.StringVar(&opts.tags, "tags", "", "Only show instances with any of these comma-separated tags")
	f.StringVar(&opts.sortBy, "sortby", "host", "Column to sort by ("+strings.Join(cci.SortColumns, ", ")+")")
	cmd.MarkFlagsMutuallyExclusive("hourly", "monthly")
	_ = cmd.RegisterFlagCompletionFunc("sortby", cobra.FixedCompletions(cci.SortColumns, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func runCCIList(cmd *cobra.Command, o *rootOptions, opts *cciListOptions) error {
	s, err := o.session()
	if err != nil {
		return err
	}

	var guests []softlayer.VirtualGuest
	err = cli.Progress(s.Streams.ErrOut, s.Printer.Quiet, "Listing CCIs...", func() error {
		var err error
		guests, err = s.CCI.List(cmd.Context(), cci.ListOptions{
			Hourly:     opts.hourly,
			Monthly:    opts.monthly,
			Hostname:   opts.hostname,
			Domain:     opts.domain,
			Datacenter: opts.datacenter,
			CPUs:       opts.cpu,
			Memory:     opts.memory,
			NICSpeed:   opts.network,
			Tags:       slstrings.SplitList(opts.tags),
		})
		return err
	})
	if err != nil {
		return err
	}
	if err := cci.SortGuests(guests, opts.sortBy); err != nil {
		return err
	}

	return s.Printer.Print(guests, func() *cli.Table {
		t := &cli.Table{Headers: []string{"id", "datacenter", "host", "cores", "memory", "primary_ip", "backend_ip", "active_transaction"}}
		for i := range guests {
			g := &guests[i]
			t.AddRow(
				strconv.Itoa(g.ID),
				g.DatacenterName(),
				g.FullyQualifiedDomainName,
				strconv.Itoa(g.MaxCPU),
				cci.FormatMemory(g.MaxMemory),
				g.PrimaryIPAddress,
				g.PrimaryBackendIPAddress,
				g.ActiveTransaction.StatusName(),
			)
		}
		return t
	})
}

type cciDetailOptions struct {
	passwords bool
	price     bool
}

// cciDetail is the structured form of "cci detail".
type cciDetail struct {
	*softlayer.VirtualGuest
	PTR []softlayer.ResourceRecord `json:"ptr,omitempty"`
}

func newCCIDetailCmd(o *rootOptions) *cobra.Command {
	opts := &cciDetailOptions{}
	cmd := &cobra.Command{
		Use:   "detail <identifier>",
		Short: "Get details for a CCI",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCCIDetail(cmd, o, opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.passwords, "passwords", false, "Show passwords (check over your shoulder!)")
	cmd.Flags().BoolVar(&opts.price, "price", false, "Show the recurring fee")
	return cmd
}

func runCCIDetail(cmd *cobra.Command, o *rootOptions, opts *cciDetailOptions, ref string) error {
	s, err := o.session()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	id, err := s.ResolveCCI(ctx, ref)
	if err != nil {
		return err
	}
	var (
		guest *softlayer.VirtualGuest
		zones []softlayer.Domain
	)
	// Reverse records are fetched alongside the guest. A missing reverse zone
	// is not an error, and private-only guests show no PTR records.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		guest, err = s.CCI.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		zones, err = s.CCI.ReverseDomainRecords(gctx, id)
		if softlayer.IsNotFound(err) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	shown := *guest
	detail := cciDetail{VirtualGuest: &shown}
	if !guest.PrivateNetworkOnlyFlag {
		for _, zone := range zones {
			detail.PTR = append(detail.PTR, zone.ResourceRecords...)
		}
	}
	if !opts.passwords && shown.OperatingSystem != nil {
		withoutPasswords := *shown.OperatingSystem
		withoutPasswords.Passwords = nil
		shown.OperatingSystem = &withoutPasswords
	}
	if !opts.price {
		shown.BillingItem = nil
	}

	return s.Printer.Print(detail, func() *cli.Table {
		return cciDetailTable(detail)
	})
}

func cciDetailTable(d cciDetail) *cli.Table {
	g := d.VirtualGuest
	t := cli.KeyValueTable()
	t.AddRow("id", strconv.Itoa(g.ID))
	t.AddRow("hostname", g.FullyQualifiedDomainName)
	t.AddRow("status", statusName(g.Status))
	t.AddRow("state", statusName(g.PowerState))
	t.AddRow("active_transaction", g.ActiveTransaction.StatusName())
	t.AddRow("datacenter", g.DatacenterName())
	if desc := g.OperatingSystem.Description(); desc != nil {
		t.AddRow("os", strings.TrimSpace(desc.Name+" "+desc.Version))
	}
	t.AddRow("cores", strconv.Itoa(g.MaxCPU))
	t.AddRow("memory", cci.FormatMemory(g.MaxMemory))
	t.AddRow("public_ip", g.PrimaryIPAddress)
	t.AddRow("private_ip", g.PrimaryBackendIPAddress)
	t.AddRow("private_only", strconv.FormatBool(g.PrivateNetworkOnlyFlag))
	t.AddRow("private_cpu", strconv.FormatBool(g.DedicatedAccountHostOnlyFlag))
	t.AddRow("billing", billingName(g.HourlyBillingFlag))
	t.AddRow("created", g.CreateDate)
	t.AddRow("modified", g.ModifyDate)
	if g.Notes != "" {
		t.AddRow("notes", g.Notes)
	}
	if tags := g.Tags(); len(tags) > 0 {
		t.AddRow("tags", strings.Join(tags, ","))
	}
	for _, vlan := range g.NetworkVlans {
		t.AddRow("vlan", fmt.Sprintf("%s %d (%d)", strings.ToLower(vlan.NetworkSpace), vlan.VlanNumber, vlan.ID))
	}
	if g.BillingItem != nil {
		t.AddRow("price_rate", g.BillingItem.RecurringFee.String())
	}
	if g.OperatingSystem != nil {
		for _, p := range g.OperatingSystem.Passwords {
			t.AddRow("users", p.Username+" "+p.Password)
		}
	}
	for _, ptr := range d.PTR {
		t.AddRow("ptr", ptr.Data)
	}
	return t
}

func statusName(s *softlayer.Status) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func billingName(hourly bool) string {
	if hourly {
		return "hourly"
	}
	return "monthly"
}

type cciCreateOptionsOptions struct {
	all bool
	sel cci.OptionSelection
}

func newCCICreateOptionsCmd(o *rootOptions) *cobra.Command {
	opts := &cciCreateOptionsOptions{}
	cmd := &cobra.Command{
		Use:   "create-options",
		Short: "Output available options when creating a CCI",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session()
			if err != nil {
				return err
			}
			options, err := s.CCI.CreateObjectOptions(cmd.Context())
			if err != nil {
				return err
			}
			sel := opts.sel
			if opts.all {
				sel = cci.OptionSelection{}
			}
			rows := cci.SummarizeCreateOptions(options, sel)
			return s.Printer.Print(options, func() *cli.Table {
				t := cli.KeyValueTable()
				for _, row := range rows {
					t.AddRow(row.Name, row.Value)
				}
				return t
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.all, "all", false, "Show all options (default when no filter is given)")
	f.BoolVar(&opts.sel.CPU, "cpu", false, "Show CPU options")
	f.BoolVar(&opts.sel.Datacenter, "datacenter", false, "Show datacenter options")
	f.BoolVar(&opts.sel.Disk, "disk", false, "Show disk options")
	f.BoolVar(&opts.sel.Memory, "memory", false, "Show memory size options")
	f.BoolVar(&opts.sel.NIC, "nic", false, "Show NIC speed options")
	f.BoolVar(&opts.sel.OS, "os", false, "Show operating system options")
	return cmd
}

func newCCIReadyCmd(o *rootOptions) *cobra.Command {
	var waitSeconds int
	cmd := &cobra.Command{
		Use:   "ready <identifier>",
		Short: "Check if a CCI is ready",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if waitSeconds < 0 {
				return guard.Invalid("wait", "%d must not be negative", waitSeconds)
			}
			s, err := o.session()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := s.ResolveCCI(ctx, args[0])
			if err != nil {
				return err
			}

			var ready bool
			err = cli.Progress(s.Streams.ErrOut, s.Printer.Quiet, fmt.Sprintf("Waiting for CCI %d...", id), func() error {
				var err error
				ready, err = s.CCI.WaitForReady(ctx, id, seconds(waitSeconds))
				return err
			})
			if err != nil {
				return err
			}
			if !ready {
				return fmt.Errorf("Instance %d not ready", id)
			}
			fmt.Fprintln(s.Streams.Out, "READY")
			return nil
		},
	}
	cmd.Flags().IntVar(&waitSeconds, "wait", 0, "Seconds to wait for the instance to become ready")
	return cmd
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"slcli/internal/cci"
	"slcli/internal/cli"
	"slcli/internal/guard"
	"slcli/internal/softlayer"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const chargesPrompt = "This action will incur charges on your account. Continue?"

type cciCreateOptions struct {
	flags       cci.Template
	like        string
	template    string
	export      string
	test        bool
	waitSeconds int
	force       bool
}

// cciQuote is the structured form of "cci create --test".
type cciQuote struct {
	Items []cciQuoteItem    `json:"items"`
	Total softlayer.Decimal `json:"total"`
}

type cciQuoteItem struct {
	Item string            `json:"item"`
	Cost softlayer.Decimal `json:"cost"`
}

// cciCreated is the structured form of a placed order.
type cciCreated struct {
	ID      int    `json:"id"`
	Created string `json:"created"`
	GUID    string `json:"guid"`
	Ready   *bool  `json:"ready,omitempty"`
}

func newCCICreateCmd(o *rootOptions) *cobra.Command {
	opts := &cciCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Order and create a CCI",
		Long: `Order and create a CCI.

Options may come from flags, from a template file written by --export, or
from an existing instance named by --like. Flags override the template and
both override the --like instance. See "slcli cci create-options" for
valid values.`,
		Example: `  slcli cci create -H web01 -D example.com -c 2 -m 4G --hourly --os UBUNTU_LATEST -d dal05
  slcli cci create --like web01 -H web02 --test
  slcli cci create --template web.yaml -H web03 --wait 600`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCCICreate(cmd, o, opts)
		},
	}

	t := &opts.flags
	f := cmd.Flags()
	f.StringVarP(&t.Hostname, "hostname", "H", "", "Host portion of the FQDN")
	f.StringVarP(&t.Domain, "domain", "D", "", "Domain portion of the FQDN")
	f.IntVarP(&t.CPU, "cpu", "c", 0, "Number of CPU cores")
	f.StringVarP(&t.Memory, "memory", "m", "", "Memory in MB, or with a G or T suffix")
	f.BoolVar(&t.Hourly, "hourly", false, "Hourly rate instance type")
	f.BoolVar(&t.Monthly, "monthly", false, "Monthly rate instance type")
	f.StringVar(&t.OS, "os", "", "OS install code")
	f.StringVar(&t.Image, "image", "", "Image GUID")
	f.StringVarP(&t.Datacenter, "datacenter", "d", "", "Datacenter shortname")
	f.BoolVar(&t.Dedicated, "dedicated", false, "Allocate a dedicated CCI (non-shared host)")
	f.BoolVar(&t.Private, "private", false, "Forces the CCI to only have access to the private network")
	f.BoolVar(&t.SAN, "san", false, "Use SAN storage instead of local disk")
	f.IntVarP(&t.Network, "network", "n", 0, "Network port speed in Mbps")
	f.IntSliceVar(&t.Disk, "disk", nil, "Disk sizes in GB (repeatable or comma separated)")
	f.StringSliceVarP(&t.Key, "key", "k", nil, "SSH key ID or label to add to the root user (repeatable)")
	f.StringVarP(&t.UserData, "userdata", "u", "", "User defined metadata string")
	f.StringVarP(&t.UserFile, "userfile", "F", "", "Read user defined metadata from a file")
	f.StringVarP(&t.PostInstall, "postinstall", "i", "", "Post-install script URI to download")
	f.IntVar(&t.VlanPublic, "vlan-public", 0, "ID of the public VLAN")
	f.IntVar(&t.VlanPrivate, "vlan-private", 0, "ID of the private VLAN")

	f.StringVar(&opts.like, "like", "", "Use the configuration of an existing CCI")
	f.StringVarP(&opts.template, "template", "t", "", "A template file that defaults the command-line options")
	f.StringVar(&opts.export, "export", "", "Write the options to a template file and exit")
	f.BoolVar(&opts.test, "test", false, "Do not create the CCI, just get a quote")
	f.BoolVar(&opts.test, "dry-run", false, "Alias for --test")
	f.IntVar(&opts.waitSeconds, "wait", 0, "Seconds to wait for the new CCI to become ready")
	cli.RegisterForceFlag(cmd, &opts.force)

	cmd.MarkFlagsMutuallyExclusive("hourly", "monthly")
	cmd.MarkFlagsMutuallyExclusive("os", "image")
	cmd.MarkFlagsMutuallyExclusive("userdata", "userfile")
	cmd.MarkFlagsMutuallyExclusive("test", "dry-run")
	return cmd
}

// templateFlags mirrors cci.Template without omitempty so that flags set to
// a zero value still override the template.
type templateFlags struct {
	Hostname    string   `yaml:"hostname"`
	Domain      string   `yaml:"domain"`
	CPU         int      `yaml:"cpu"`
	Memory      string   `yaml:"memory"`
	Hourly      bool     `yaml:"hourly"`
	Monthly     bool     `yaml:"monthly"`
	OS          string   `yaml:"os"`
	Image       string   `yaml:"image"`
	Datacenter  string   `yaml:"datacenter"`
	Dedicated   bool     `yaml:"dedicated"`
	Private     bool     `yaml:"private"`
	SAN         bool     `yaml:"san"`
	Network     int      `yaml:"network"`
	Disk        []int    `yaml:"disk"`
	Key         []string `yaml:"key"`
	UserData    string   `yaml:"userdata"`
	UserFile    string   `yaml:"userfile"`
	PostInstall string   `yaml:"postinstall"`
	VlanPublic  int      `yaml:"vlan-public"`
	VlanPrivate int      `yaml:"vlan-private"`
}

// mergeTemplate loads path and overlays every flag set on the command line.
func mergeTemplate(cmd *cobra.Command, path string, flags cci.Template) (cci.Template, error) {
	base, err := cci.LoadTemplate(path)
	if err != nil {
		return cci.Template{}, guard.Invalid("template", "%v", err)
	}

	data, err := yaml.Marshal(templateFlags(flags))
	if err != nil {
		return cci.Template{}, err
	}
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return cci.Template{}, err
	}
	for name := range values {
		if !cmd.Flags().Changed(name) {
			delete(values, name)
		}
	}
	if data, err = yaml.Marshal(values); err != nil {
		return cci.Template{}, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return cci.Template{}, err
	}
	if cmd.Flags().Changed("hourly") {
		base.Monthly = false
	}
	if cmd.Flags().Changed("monthly") {
		base.Hourly = false
	}
	return *base, nil
}

// createOptionsFromTemplate converts flag values to CreateOptions. SSH keys
// stay unresolved.
func createOptionsFromTemplate(t cci.Template) (cci.CreateOptions, error) {
	opts := cci.CreateOptions{
		Hostname:       t.Hostname,
		Domain:         t.Domain,
		CPUs:           t.CPU,
		Hourly:         t.Hourly,
		Monthly:        t.Monthly,
		OSCode:         t.OS,
		ImageID:        t.Image,
		Datacenter:     t.Datacenter,
		Dedicated:      t.Dedicated,
		Private:        t.Private,
		SAN:            t.SAN,
		Disks:          t.Disk,
		NICSpeed:       t.Network,
		UserData:       t.UserData,
		PostInstallURI: t.PostInstall,
		PublicVLAN:     t.VlanPublic,
		PrivateVLAN:    t.VlanPrivate,
	}
	if t.Memory != "" {
		mb, err := cci.ParseMemory(t.Memory)
		if err != nil {
			return opts, err
		}
		opts.MemoryMB = mb
	}
	if t.UserFile != "" {
		if t.UserData != "" {
			return opts, guard.Invalidf("[-u | --userdata] not allowed with [-F | --userfile]")
		}
		data, err := os.ReadFile(t.UserFile)
		if err != nil {
			return opts, guard.Invalid("userfile", "%v", err)
		}
		opts.UserData = string(data)
	}
	return opts, nil
}

func runCCICreate(cmd *cobra.Command, o *rootOptions, opts *cciCreateOptions) error {
	if opts.waitSeconds < 0 {
		return guard.Invalid("wait", "%d must not be negative", opts.waitSeconds)
	}

	tmpl := opts.flags
	if opts.template != "" {
		merged, err := mergeTemplate(cmd, opts.template, opts.flags)
		if err != nil {
			return err
		}
		tmpl = merged
	}

	if opts.export != "" {
		if err := tmpl.Save(opts.export); err != nil {
			return err
		}
		o.printer().Success("CCI template exported to %s", opts.export)
		return nil
	}

	create, err := createOptionsFromTemplate(tmpl)
	if err != nil {
		return err
	}
	if opts.like == "" {
		if err := create.Validate(); err != nil {
			return err
		}
	}

	s, err := o.session()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if opts.like != "" {
		likeID, err := s.ResolveCCI(ctx, opts.like)
		if err != nil {
			return err
		}
		like, err := s.CCI.Get(ctx, likeID)
		if err != nil {
			return err
		}
		create.ApplyLike(like)
		if err := create.Validate(); err != nil {
			return err
		}
	}

	if create.SSHKeyIDs, err = s.SSHKeys.ResolveAll(ctx, tmpl.Key); err != nil {
		return err
	}

	if opts.test {
		return printQuote(cmd, s, create)
	}

	if !s.Prompter.Confirm(chargesPrompt, opts.force) {
		return &guard.AbortedError{Message: "aborted by user"}
	}

	guest, err := s.CCI.Create(ctx, create)
	if err != nil {
		return err
	}
	result := cciCreated{ID: guest.ID, Created: guest.CreateDate, GUID: guest.GlobalIdentifier}

	if opts.waitSeconds > 0 {
		var ready bool
		err := cli.Progress(s.Streams.ErrOut, s.Printer.Quiet, fmt.Sprintf("Waiting for CCI %d...", guest.ID), func() error {
			var err error
			ready, err = s.CCI.WaitForReady(ctx, guest.ID, seconds(opts.waitSeconds))
			return err
		})
		if err != nil {
			return err
		}
		result.Ready = &ready
	}

	return s.Printer.Print(result, func() *cli.Table {
		t := cli.KeyValueTable()
		t.AddRow("id", strconv.Itoa(result.ID))
		t.AddRow("created", result.Created)
		t.AddRow("guid", result.GUID)
		if result.Ready != nil {
			t.AddRow("ready", strconv.FormatBool(*result.Ready))
		}
		return t
	})
}

func printQuote(cmd *cobra.Command, s *cli.Session, create cci.CreateOptions) error {
	order, err := s.CCI.Verify(cmd.Context(), create)
	if err != nil {
		return err
	}
	lines, total := cci.Quote(order, create.Hourly)

	quote := cciQuote{Total: total}
	for _, line := range lines {
		quote.Items = append(quote.Items, cciQuoteItem{Item: line.Item, Cost: line.Cost})
	}
	rate := "monthly"
	if create.Hourly {
		rate = "hourly"
	}

	return s.Printer.Print(quote, func() *cli.Table {
		t := &cli.Table{Headers: []string{"item", "cost"}}
		for _, item := range quote.Items {
			t.AddRow(item.Item, item.Cost.String())
		}
		t.AddRow("Total "+rate+" cost", total.String())
		return t
	})
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"slcli/internal/cci"
	"slcli/internal/cli"
	"slcli/internal/dns"
	"slcli/internal/guard"
	"slcli/internal/softlayer"

	"github.com/spf13/cobra"
)

// errUpdateFailed is returned when SoftLayer reports an edit as rejected.
var errUpdateFailed = errors.New("failed to update CCI")

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// runGuarded opens a session and executes the action built for it on ref.
// build runs before resolution so flag-dependent lookups such as SSH keys
// fail before any prompt.
func runGuarded[T any](cmd *cobra.Command, o *rootOptions, ref string, forced bool,
	build func(ctx context.Context, s *cli.Session) (guard.Action[T], error),
) (T, *cli.Session, error) {
	var zero T
	s, err := o.session()
	if err != nil {
		return zero, nil, err
	}
	ctx := cmd.Context()
	action, err := build(ctx, s)
	if err != nil {
		return zero, s, err
	}
	result, err := guard.Execute(ctx, s.CCIGuard(), ref, action, forced)
	return result, s, err
}

// newSimpleActionCmd builds commands that only confirm and fire a boolean
// action, such as power-on or pause.
func newSimpleActionCmd(o *rootOptions, use, short, done string,
	action func(m *cci.Manager) guard.Action[bool],
) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   use + " <identifier>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, s, err := runGuarded(cmd, o, args[0], force, func(_ context.Context, s *cli.Session) (guard.Action[bool], error) {
				return action(s.CCI), nil
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s %s: SoftLayer rejected the request", use, args[0])
			}
			s.Printer.Success("%s %s", done, args[0])
			return nil
		},
	}
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newCCICancelCmd(o *rootOptions) *cobra.Command {
	cmd := newSimpleActionCmd(o, "cancel", "Cancel a CCI", "Cancellation requested for",
		(*cci.Manager).CancelAction)
	cmd.Long = `Cancel (delete) a CCI. This cannot be undone, so the instance ID
must be typed back unless --force is given.`
	return cmd
}

func newCCIPowerOnCmd(o *rootOptions) *cobra.Command {
	return newSimpleActionCmd(o, "power-on", "Power on a CCI", "Power on requested for",
		(*cci.Manager).PowerOnAction)
}

func newCCIPauseCmd(o *rootOptions) *cobra.Command {
	return newSimpleActionCmd(o, "pause", "Pause an active CCI", "Pause requested for",
		(*cci.Manager).PauseAction)
}

func newCCIResumeCmd(o *rootOptions) *cobra.Command {
	return newSimpleActionCmd(o, "resume", "Resume a paused CCI", "Resume requested for",
		(*cci.Manager).ResumeAction)
}

func newCCIPowerOffCmd(o *rootOptions) *cobra.Command {
	var hard bool
	cmd := newSimpleActionCmd(o, "power-off", "Power off an active CCI", "Power off requested for",
		func(m *cci.Manager) guard.Action[bool] { return m.PowerOffAction(hard) })
	cmd.Flags().BoolVar(&hard, "hard", false, "Cut power instead of shutting down cleanly")
	return cmd
}

func newCCIRebootCmd(o *rootOptions) *cobra.Command {
	var hard, soft bool
	cmd := newSimpleActionCmd(o, "reboot", "Reboot an active CCI", "Reboot requested for",
		func(m *cci.Manager) guard.Action[bool] {
			mode := cci.RebootDefault
			switch {
			case hard:
				mode = cci.RebootHard
			case soft:
				mode = cci.RebootSoft
			}
			return m.RebootAction(mode)
		})
	cmd.Flags().BoolVar(&hard, "hard", false, "Perform a hard reboot")
	cmd.Flags().BoolVar(&soft, "soft", false, "Perform a soft reboot")
	cmd.MarkFlagsMutuallyExclusive("hard", "soft")
	return cmd
}

func newCCIReloadCmd(o *rootOptions) *cobra.Command {
	var (
		force       bool
		postInstall string
		keys        []string
	)
	cmd := &cobra.Command{
		Use:   "reload <identifier>",
		Short: "Reload the operating system on a CCI",
		Long: `Reload the operating system on a CCI. All data on the primary disk
is lost, so the instance ID must be typed back unless --force is given.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := runGuarded(cmd, o, args[0], force, func(ctx context.Context, s *cli.Session) (guard.Action[bool], error) {
				keyIDs, err := s.SSHKeys.ResolveAll(ctx, keys)
				if err != nil {
					return guard.Action[bool]{}, err
				}
				return s.CCI.ReloadAction(postInstall, keyIDs), nil
			})
			if err != nil {
				return err
			}
			s.Printer.Success("OS reload requested for %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&postInstall, "postinstall", "i", "", "Post-install script URI to download")
	cmd.Flags().StringSliceVarP(&keys, "key", "k", nil, "SSH key ID or label to add to the root user (repeatable)")
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newCCINICEditCmd(o *rootOptions) *cobra.Command {
	var (
		force bool
		speed int
	)
	cmd := &cobra.Command{
		Use:       "nic-edit <identifier> public|private",
		Short:     "Set the port speed of a CCI network interface",
		Args:      exactArgs(2),
		ValidArgs: []string{"public", "private"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var public bool
			switch args[1] {
			case "public":
				public = true
			case "private":
			default:
				return guard.Invalid("interface", "%q must be public or private", args[1])
			}
			if !cmd.Flags().Changed("speed") {
				return guard.Invalidf("missing required option: --speed")
			}
			if err := cci.ValidatePortSpeed(speed); err != nil {
				return err
			}

			ok, s, err := runGuarded(cmd, o, args[0], force, func(_ context.Context, s *cli.Session) (guard.Action[bool], error) {
				return s.CCI.PortSpeedAction(public, speed), nil
			})
			if err != nil {
				return err
			}
			if !ok {
				return errUpdateFailed
			}
			s.Printer.Success("%s port speed of %s set to %d Mbps", args[1], args[0], speed)
			return nil
		},
	}
	cmd.Flags().IntVar(&speed, "speed", 0, "Port speed in Mbps (0, 10, 100, 1000, 10000)")
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newCCIEditCmd(o *rootOptions) *cobra.Command {
	var (
		force    bool
		edit     cci.EditOptions
		userFile string
	)
	cmd := &cobra.Command{
		Use:   "edit <identifier>",
		Short: "Edit a CCI's hostname, domain, notes or user data",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFile != "" {
				data, err := os.ReadFile(userFile)
				if err != nil {
					return guard.Invalid("userfile", "%v", err)
				}
				edit.UserData = string(data)
			}
			if edit.Empty() {
				return guard.Invalidf("nothing to edit: pass at least one of --hostname, --domain, --notes, --userdata or --userfile")
			}

			ok, s, err := runGuarded(cmd, o, args[0], force, func(_ context.Context, s *cli.Session) (guard.Action[bool], error) {
				return s.CCI.EditAction(edit), nil
			})
			if err != nil {
				return err
			}
			if !ok {
				return errUpdateFailed
			}
			s.Printer.Success("Updated %s", args[0])
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&edit.Hostname, "hostname", "H", "", "Host portion of the FQDN")
	f.StringVarP(&edit.Domain, "domain", "D", "", "Domain portion of the FQDN")
	f.StringVar(&edit.Notes, "notes", "", "Notes to attach to the instance")
	f.StringVarP(&edit.UserData, "userdata", "u", "", "User defined metadata string")
	f.StringVarP(&userFile, "userfile", "F", "", "Read user defined metadata from a file")
	cmd.MarkFlagsMutuallyExclusive("userdata", "userfile")
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newCCICaptureCmd(o *rootOptions) *cobra.Command {
	var (
		force bool
		name  string
		all   bool
		note  string
	)
	cmd := &cobra.Command{
		Use:   "capture <identifier>",
		Short: "Capture an image of a CCI",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return guard.Invalidf("missing required option: --name")
			}
			txn, s, err := runGuarded(cmd, o, args[0], force, func(_ context.Context, s *cli.Session) (guard.Action[*softlayer.Transaction], error) {
				return s.CCI.CaptureAction(name, all, note), nil
			})
			if err != nil {
				return err
			}
			return s.Printer.Print(txn, func() *cli.Table {
				t := cli.KeyValueTable()
				t.AddRow("vs_id", strconv.Itoa(txn.GuestID))
				t.AddRow("date", txn.CreateDate)
				t.AddRow("transaction", txn.StatusName())
				t.AddRow("transaction_id", strconv.Itoa(txn.ID))
				t.AddRow("all_disks", strconv.FormatBool(all))
				return t
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the image")
	cmd.Flags().BoolVar(&all, "all", false, "Capture all disks except swap")
	cmd.Flags().StringVar(&note, "note", "", "Note for the image")
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newCCIUpgradeCmd(o *rootOptions) *cobra.Command {
	var (
		force   bool
		cpus    int
		memory  int
		network int
		private bool
	)
	cmd := &cobra.Command{
		Use:   "upgrade <identifier>",
		Short: "Upgrade the CPU, memory or network speed of a CCI",
		Long: `Order more cores, memory or a faster port for a CCI. CPU and memory
changes reboot the instance.`,
		Example: `  slcli cci upgrade web01 --cpu 4 --memory 8192
  slcli cci upgrade 12345 --network 1000 --force`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cci.UpgradeOptions{CPUs: cpus, MemoryMB: memory, NICSpeed: network, Private: private}
			if err := opts.Validate(); err != nil {
				return err
			}
			receipt, s, err := runGuarded(cmd, o, args[0], force, func(_ context.Context, s *cli.Session) (guard.Action[*softlayer.OrderReceipt], error) {
				return s.CCI.UpgradeAction(opts), nil
			})
			if err != nil {
				return err
			}
			return s.Printer.Print(receipt, func() *cli.Table {
				t := cli.KeyValueTable()
				t.AddRow("order_id", strconv.Itoa(receipt.OrderID))
				t.AddRow("order_date", receipt.OrderDate)
				return t
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&cpus, "cpu", "c", 0, "Number of CPU cores")
	f.IntVarP(&memory, "memory", "m", 0, "Memory in MB, a whole number of gigabytes")
	f.IntVarP(&network, "network", "n", 0, "Network port speed in Mbps")
	f.BoolVar(&private, "private", false, "Use dedicated host cores")
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newCCIDNSCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "DNS related actions for a CCI",
	}
	cmd.AddCommand(newCCIDNSSyncCmd(o))
	return cmd
}

func newCCIDNSSyncCmd(o *rootOptions) *cobra.Command {
	var (
		force bool
		a     bool
		ptr   bool
		ttl   int
	)
	cmd := &cobra.Command{
		Use:   "sync <identifier>",
		Short: "Sync DNS records for a CCI",
		Long: `Create or update the A record of a CCI in its domain's zone and the
PTR record of its primary IP address in the reverse zone. Without -a or
--ptr both records are synced.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = s.Config.DNS.TTL
			}
			if ttl <= 0 {
				return guard.Invalid("ttl", "%d must be positive", ttl)
			}

			changes, err := s.DNSSyncer().Sync(cmd.Context(), args[0], dns.SyncOptions{A: a, PTR: ptr, TTL: ttl}, force)
			if err != nil {
				for _, c := range changes {
					s.Printer.Warn("%s record for %s was already applied (%s)", c.Type, c.Host, c.Data)
				}
				return err
			}
			return s.Printer.Print(changes, func() *cli.Table {
				t := &cli.Table{Headers: []string{"type", "host", "data", "ttl", "action"}}
				for _, c := range changes {
					action := "updated"
					if c.Created {
						action = "created"
					}
					t.AddRow(c.Type, c.Host, c.Data, strconv.Itoa(c.TTL), action)
				}
				return t
			})
		},
	}
	cmd.Flags().BoolVarP(&a, "a-record", "a", false, "Sync only the A record")
	cmd.Flags().BoolVar(&ptr, "ptr", false, "Sync only the PTR record")
	cmd.Flags().IntVar(&ttl, "ttl", 0, fmt.Sprintf("TTL for the records (default from config, %d)", dns.DefaultTTL))
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

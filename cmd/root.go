package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"slcli/internal/cli"
	"slcli/internal/config"
	"slcli/internal/dns"
	"slcli/internal/guard"
	"slcli/internal/profile"
	"slcli/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general or remote API error.
	ExitCodeError = 1
	// ExitCodeValidation indicates invalid flags or arguments.
	ExitCodeValidation = 2
	// ExitCodeNotFound indicates an identifier matched nothing or too much.
	ExitCodeNotFound = 3
	// ExitCodeAborted indicates the user declined a confirmation.
	ExitCodeAborted = 4
)

var version = "dev"

// SetVersion sets the version reported by "slcli version". It is called
// from main with the value injected at build time.
func SetVersion(v string) {
	version = v
}

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// rootOptions is shared by every command of one invocation.
type rootOptions struct {
	flags   cli.CommandFlags
	streams cli.IOStreams
}

// session builds the API session for commands that talk to SoftLayer.
func (o *rootOptions) session() (*cli.Session, error) {
	return cli.NewSession(&o.flags, o.streams)
}

// logLevel picks the stderr log level. --debug wins over --log-level.
func (o *rootOptions) logLevel() (logging.LogLevel, error) {
	switch {
	case o.flags.Debug:
		return logging.LevelDebug, nil
	case o.flags.LogLevel == "":
		return logging.LevelWarn, nil
	}
	return logging.ParseLevel(o.flags.LogLevel)
}

// profiles opens profiles.yaml in the configuration directory.
func (o *rootOptions) profiles() *profile.Storage {
	return profile.NewStorageWithPath(o.flags.ConfigPath)
}

// printer returns a printer for commands that do not need a session.
func (o *rootOptions) printer() *cli.Printer {
	format := cli.OutputFormat(o.flags.OutputFormat)
	if format == "" {
		format = cli.OutputFormatTable
	}
	return &cli.Printer{
		Format:    format,
		NoHeaders: o.flags.NoHeaders,
		Quiet:     o.flags.Quiet,
		Out:       o.streams.Out,
		ErrOut:    o.streams.ErrOut,
	}
}

func defaultConfigPath() string {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return filepath.Join(".", ".slcli")
	}
	return path
}

// newRootCmd builds the command tree writing to streams.
func newRootCmd(streams cli.IOStreams) *cobra.Command {
	o := &rootOptions{streams: streams}

	root := &cobra.Command{
		Use:   "slcli",
		Short: "Manage SoftLayer cloud compute instances",
		Long: `slcli manages SoftLayer cloud compute instances (CCIs) from the
command line: list and inspect them, order new ones, change their power
state, capture images, keep their DNS records in sync and upgrade them.

Commands that change or cancel an instance ask for confirmation first;
pass --force to skip the prompt in scripts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := o.logLevel()
			if err != nil {
				return guard.Invalid("log-level", "%v", err)
			}
			logging.InitForCLI(level, o.streams.ErrOut)
			if err := cmd.ValidateFlagGroups(); err != nil {
				return guard.Invalidf("%v", err)
			}
			if o.flags.OutputFormat != "" {
				if err := cli.ValidateOutputFormat(o.flags.OutputFormat); err != nil {
					return guard.Invalid("output", "%v", err)
				}
			}
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "slcli version %s\n" .Version}}`)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return guard.Invalidf("%v", err)
	})

	cli.RegisterCommonFlags(root, &o.flags, defaultConfigPath())
	_ = root.RegisterFlagCompletionFunc("profile", cli.ProfileCompletion(func() string { return o.flags.ConfigPath }))

	root.AddCommand(
		newCCICmd(o),
		newProfileCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
		newSelfUpdateCmd(),
	)
	return root
}

// Execute runs the CLI and exits with a code describing the outcome.
func Execute() {
	streams := cli.StdStreams()
	err := newRootCmd(streams).Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(streams.ErrOut, cli.FormatError(presentError(err)))
	os.Exit(getExitCode(err))
}

// presentError adds connection guidance to transport failures.
func presentError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return cli.ClassifyConnectionError(err, urlErr.URL)
	}
	return err
}

// getExitCode maps an error to one of the ExitCode constants.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var (
		invalid       *guard.ValidationError
		configInvalid config.ValidationErrors
		notFound      *guard.NotFoundError
		ambiguous     *guard.AmbiguousIdentifierError
		zoneMissing   *dns.ZoneNotFoundError
		noProfile     *profile.NotFoundError
		aborted       *guard.AbortedError
	)
	switch {
	case errors.As(err, &aborted):
		return ExitCodeAborted
	case errors.As(err, &invalid), errors.As(err, &configInvalid):
		return ExitCodeValidation
	case errors.As(err, &notFound), errors.As(err, &ambiguous),
		errors.As(err, &zoneMissing), errors.As(err, &noProfile):
		return ExitCodeNotFound
	default:
		return ExitCodeError
	}
}

// exactArgs is cobra.ExactArgs reporting a validation error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return guard.Invalidf("%v", err)
		}
		return nil
	}
}

// noArgs is cobra.NoArgs reporting a validation error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return guard.Invalidf("%v", err)
	}
	return nil
}

// maxArgs is cobra.MaximumNArgs reporting a validation error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return guard.Invalidf("%v", err)
		}
		return nil
	}
}

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"slcli/internal/cli"
	"slcli/internal/config"
	"slcli/internal/guard"
	"slcli/internal/profile"
	"slcli/internal/softlayer"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit client configuration",
	}
	cmd.AddCommand(
		newConfigSetupCmd(o),
		newConfigShowCmd(o),
		newConfigInitCmd(o),
	)
	return cmd
}

type configSetupOptions struct {
	profileName string
	username    string
	apiKey      string
	endpoint    string
	skipVerify  bool
}

func newConfigSetupCmd(o *rootOptions) *cobra.Command {
	opts := &configSetupOptions{}
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store credentials in a profile and make it current",
		Long: `Ask for a username and API key, check them against the API and
store them as a profile. Values not given as flags are read from stdin;
the API key is not echoed on a terminal.

--endpoint-url accepts "public", "private" or a full URL.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSetup(cmd, o, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.profileName, "profile-name", "default", "Profile to create or update")
	f.StringVar(&opts.username, "username", "", "SoftLayer username")
	f.StringVar(&opts.apiKey, "api-key", "", "SoftLayer API key")
	f.StringVar(&opts.endpoint, "endpoint-url", "public", "API endpoint: public, private or a URL")
	f.BoolVar(&opts.skipVerify, "skip-verify", false, "Store the credentials without calling the API")
	_ = cmd.RegisterFlagCompletionFunc("endpoint-url", cobra.FixedCompletions([]string{"public", "private"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// endpointURL expands the public and private shortcuts.
func endpointURL(value string) string {
	switch strings.ToLower(value) {
	case "", "public":
		return config.DefaultEndpoint
	case "private":
		return config.DefaultPrivateEndpoint
	default:
		return value
	}
}

// readLine prints prompt and reads one trimmed line.
func readLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader, buffered *bufio.Reader, out io.Writer, prompt string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}
	return readLine(buffered, out, prompt)
}

func runConfigSetup(cmd *cobra.Command, o *rootOptions, opts *configSetupOptions) error {
	if err := profile.ValidateName(opts.profileName); err != nil {
		return guard.Invalid("profile-name", "%v", err)
	}

	in := bufio.NewReader(o.streams.In)
	var err error
	if opts.username == "" {
		if opts.username, err = readLine(in, o.streams.ErrOut, "Username: "); err != nil {
			return guard.Invalid("username", "could not read username: %v", err)
		}
	}
	if opts.apiKey == "" {
		if opts.apiKey, err = readSecret(o.streams.In, in, o.streams.ErrOut, "API Key: "); err != nil {
			return guard.Invalid("api-key", "could not read API key: %v", err)
		}
	}
	if opts.username == "" || opts.apiKey == "" {
		return guard.Invalidf("a username and API key are required")
	}

	p := profile.Profile{
		Name:     opts.profileName,
		Username: opts.username,
		APIKey:   opts.apiKey,
		Endpoint: endpointURL(opts.endpoint),
	}

	printer := o.printer()
	if !opts.skipVerify {
		cfg, err := config.LoadConfig(o.flags.ConfigPath)
		if err != nil {
			return err
		}
		client, err := softlayer.NewClient(softlayer.Options{
			Endpoint:          p.Endpoint,
			Username:          p.Username,
			APIKey:            p.APIKey,
			Timeout:           cfg.API.Timeout,
			RequestsPerSecond: cfg.API.RequestsPerSecond,
		})
		if err != nil {
			return err
		}
		var account softlayer.Account
		err = cli.Progress(o.streams.ErrOut, printer.Quiet, "Checking credentials...", func() error {
			return client.Call(cmd.Context(), softlayer.Request{
				Service: softlayer.ServiceAccount,
				Method:  "getObject",
				Mask:    "id,companyName,email",
			}, &account)
		})
		if err != nil {
			return fmt.Errorf("credentials were rejected: %w", err)
		}
		printer.Success("Authenticated to account %d (%s)", account.ID, account.CompanyName)
	}

	store := o.profiles()
	f, err := store.Load()
	if err != nil {
		return err
	}
	if existing := f.Get(p.Name); existing != nil {
		p.Settings = existing.Settings
		err = store.Update(p)
	} else {
		err = store.Add(p)
	}
	if err != nil {
		return err
	}
	if err := store.Use(p.Name); err != nil {
		return err
	}
	printer.Success("Configuration saved to profile %q in %s", p.Name, store.Path())
	return nil
}

// configView is the structured form of "config show".
type configView struct {
	Source            string  `json:"source"`
	Endpoint          string  `json:"endpoint"`
	Username          string  `json:"username,omitempty"`
	APIKey            string  `json:"apiKey,omitempty"`
	AccessToken       string  `json:"accessToken,omitempty"`
	Timeout           string  `json:"timeout"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	PollInterval      string  `json:"pollInterval"`
	DNSTTL            int     `json:"dnsTtl"`
	Output            string  `json:"output"`
}

func newConfigShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings with secrets masked",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(o.flags.ConfigPath)
			if err != nil {
				return err
			}
			creds, err := cli.ResolveCredentials(&o.flags, cfg, o.profiles())
			if err != nil {
				return err
			}
			output := o.flags.OutputFormat
			if output == "" {
				output = creds.Output
			}
			if output == "" {
				output = cfg.Output
			}

			v := configView{
				Source:            creds.Source,
				Endpoint:          creds.Endpoint,
				Username:          creds.Username,
				APIKey:            maskSecret(creds.APIKey),
				AccessToken:       maskSecret(creds.AccessToken),
				Timeout:           cfg.API.Timeout.String(),
				RequestsPerSecond: cfg.API.RequestsPerSecond,
				PollInterval:      cfg.CCI.PollInterval.String(),
				DNSTTL:            cfg.DNS.TTL,
				Output:            output,
			}
			return o.printer().Print(v, func() *cli.Table {
				t := cli.KeyValueTable()
				t.AddRow("credentials", v.Source)
				t.AddRow("endpoint", v.Endpoint)
				t.AddRow("username", v.Username)
				t.AddRow("api_key", v.APIKey)
				t.AddRow("access_token", v.AccessToken)
				t.AddRow("timeout", v.Timeout)
				t.AddRow("requests_per_second", fmt.Sprint(v.RequestsPerSecond))
				t.AddRow("poll_interval", v.PollInterval)
				t.AddRow("dns_ttl", fmt.Sprint(v.DNSTTL))
				t.AddRow("output", v.Output)
				return t
			})
		},
	}
}

func newConfigInitCmd(o *rootOptions) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write config.yaml with the built-in defaults",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FilePath(o.flags.ConfigPath)
			if _, err := os.Stat(path); err == nil && !overwrite {
				return guard.Invalid("config", "%s already exists; pass --overwrite to replace it", path)
			}
			if err := config.Save(o.flags.ConfigPath, config.Default()); err != nil {
				return err
			}
			o.printer().Success("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config.yaml")
	return cmd
}

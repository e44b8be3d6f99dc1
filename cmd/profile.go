package cmd

import (
	"fmt"
	"strings"

	"slcli/internal/cli"
	"slcli/internal/guard"
	"slcli/internal/profile"

	"github.com/spf13/cobra"
)

// profileView is the structured form of a profile with secrets masked.
type profileView struct {
	Name        string `json:"name"`
	Current     bool   `json:"current"`
	Username    string `json:"username,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
	Output      string `json:"output,omitempty"`
}

func newProfileView(p profile.Profile, current string) profileView {
	v := profileView{
		Name:        p.Name,
		Current:     p.Name == current,
		Username:    p.Username,
		APIKey:      maskSecret(p.APIKey),
		AccessToken: maskSecret(p.AccessToken),
		Endpoint:    p.Endpoint,
	}
	if p.Settings != nil {
		v.Output = p.Settings.Output
	}
	return v
}

// maskSecret keeps the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}

func newProfileCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named credential profiles",
		Long: `Manage named credential profiles stored in profiles.yaml in the
configuration directory.

The profile used by a command is chosen in this order: the --profile flag,
SL_USERNAME/SL_API_KEY or SL_ACCESS_TOKEN in the environment, SL_PROFILE,
the current profile and finally the credentials in config.yaml.`,
	}
	completion := cli.ProfileCompletion(func() string { return o.flags.ConfigPath })
	cmd.AddCommand(
		newProfileListCmd(o),
		newProfileCurrentCmd(o),
		newProfileUseCmd(o, completion),
		newProfileAddCmd(o),
		newProfileUpdateCmd(o, completion),
		newProfileDeleteCmd(o, completion),
		newProfileRenameCmd(o, completion),
		newProfileShowCmd(o, completion),
	)
	return cmd
}

func newProfileListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := o.profiles()
			f, err := store.Load()
			if err != nil {
				return err
			}
			views := make([]profileView, 0, len(f.Profiles))
			for _, p := range f.Profiles {
				views = append(views, newProfileView(p, f.CurrentProfile))
			}
			return o.printer().Print(views, func() *cli.Table {
				t := &cli.Table{Headers: []string{"current", "name", "username", "endpoint"}}
				for _, v := range views {
					marker := ""
					if v.Current {
						marker = "*"
					}
					auth := v.Username
					if auth == "" && v.AccessToken != "" {
						auth = "(token)"
					}
					t.AddRow(marker, v.Name, auth, v.Endpoint)
				}
				return t
			})
		},
	}
}

func newProfileCurrentCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current profile",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := o.profiles().CurrentName()
			if err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("no current profile; run \"slcli profile use <name>\"")
			}
			fmt.Fprintln(o.streams.Out, name)
			return nil
		},
	}
}

type completionFunc = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

func newProfileUseCmd(o *rootOptions, completion completionFunc) *cobra.Command {
	return &cobra.Command{
		Use:               "use <name>",
		Short:             "Make a profile current",
		Args:              exactArgs(1),
		ValidArgsFunction: completion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.profiles().Use(args[0]); err != nil {
				return err
			}
			o.printer().Success("Switched to profile %q", args[0])
			return nil
		},
	}
}

type profileFlags struct {
	username    string
	apiKey      string
	accessToken string
	endpoint    string
	output      string
}

func (pf *profileFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&pf.username, "username", "", "SoftLayer username")
	f.StringVar(&pf.apiKey, "api-key", "", "SoftLayer API key")
	f.StringVar(&pf.accessToken, "access-token", "", "Bearer access token instead of a username and API key")
	f.StringVar(&pf.endpoint, "endpoint-url", "", "API endpoint for this profile")
	f.StringVar(&pf.output, "default-output", "", "Default output format for this profile")
}

// apply copies every changed flag onto p.
func (pf *profileFlags) apply(cmd *cobra.Command, p *profile.Profile) error {
	changed := cmd.Flags().Changed
	if changed("username") {
		p.Username = pf.username
	}
	if changed("api-key") {
		p.APIKey = pf.apiKey
	}
	if changed("access-token") {
		p.AccessToken = pf.accessToken
	}
	if changed("endpoint-url") {
		p.Endpoint = pf.endpoint
	}
	if changed("default-output") {
		if pf.output != "" {
			if err := cli.ValidateOutputFormat(pf.output); err != nil {
				return guard.Invalid("default-output", "%v", err)
			}
		}
		p.Settings = &profile.Settings{Output: pf.output}
		if pf.output == "" {
			p.Settings = nil
		}
	}
	return nil
}

func validateProfile(p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return guard.Invalidf("%v", err)
	}
	return nil
}

func newProfileAddCmd(o *rootOptions) *cobra.Command {
	var (
		pf  profileFlags
		use bool
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a profile",
		Example: `  slcli profile add prod --username jdoe --api-key 0123abcd --use
  slcli profile add ci --access-token "$TOKEN" --endpoint-url https://api.service.softlayer.com/rest/v3.1`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profile.Profile{Name: args[0]}
			if err := pf.apply(cmd, &p); err != nil {
				return err
			}
			if err := validateProfile(p); err != nil {
				return err
			}
			store := o.profiles()
			if err := store.Add(p); err != nil {
				return err
			}
			if use {
				if err := store.Use(p.Name); err != nil {
					return err
				}
			}
			o.printer().Success("Added profile %q", p.Name)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&use, "use", false, "Make the new profile current")
	return cmd
}

func newProfileUpdateCmd(o *rootOptions, completion completionFunc) *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:               "update <name>",
		Short:             "Change the settings of a profile",
		Args:              exactArgs(1),
		ValidArgsFunction: completion,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := o.profiles()
			existing, err := store.Get(args[0])
			if err != nil {
				return err
			}
			p := *existing
			if err := pf.apply(cmd, &p); err != nil {
				return err
			}
			if err := validateProfile(p); err != nil {
				return err
			}
			if err := store.Update(p); err != nil {
				return err
			}
			o.printer().Success("Updated profile %q", p.Name)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newProfileDeleteCmd(o *rootOptions, completion completionFunc) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:               "delete <name>",
		Aliases:           []string{"rm"},
		Short:             "Delete a profile",
		Args:              exactArgs(1),
		ValidArgsFunction: completion,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := o.profiles()
			if _, err := store.Get(args[0]); err != nil {
				return err
			}
			prompter := guard.NewPrompter(o.streams.In, o.streams.ErrOut)
			if !prompter.Confirm(fmt.Sprintf("Delete profile %q?", args[0]), force) {
				return &guard.AbortedError{Message: "aborted by user"}
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			o.printer().Success("Deleted profile %q", args[0])
			return nil
		},
	}
	cli.RegisterForceFlag(cmd, &force)
	return cmd
}

func newProfileRenameCmd(o *rootOptions, completion completionFunc) *cobra.Command {
	return &cobra.Command{
		Use:               "rename <old> <new>",
		Short:             "Rename a profile",
		Args:              exactArgs(2),
		ValidArgsFunction: completion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := profile.ValidateName(args[1]); err != nil {
				return guard.Invalid("name", "%v", err)
			}
			if err := o.profiles().Rename(args[0], args[1]); err != nil {
				return err
			}
			o.printer().Success("Renamed profile %q to %q", args[0], args[1])
			return nil
		},
	}
}

func newProfileShowCmd(o *rootOptions, completion completionFunc) *cobra.Command {
	return &cobra.Command{
		Use:               "show [name]",
		Short:             "Show a profile with secrets masked",
		Args:              maxArgs(1),
		ValidArgsFunction: completion,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := o.profiles()
			current, err := store.CurrentName()
			if err != nil {
				return err
			}
			name := current
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("no current profile; pass a profile name")
			}
			p, err := store.Get(name)
			if err != nil {
				return err
			}

			v := newProfileView(*p, current)
			return o.printer().Print(v, func() *cli.Table {
				t := cli.KeyValueTable()
				t.AddRow("name", v.Name)
				t.AddRow("current", fmt.Sprint(v.Current))
				t.AddRow("username", v.Username)
				t.AddRow("api_key", v.APIKey)
				t.AddRow("access_token", v.AccessToken)
				t.AddRow("endpoint", v.Endpoint)
				t.AddRow("output", v.Output)
				return t
			})
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"
)

// CommandFlags holds the global flag values shared by every command.
type CommandFlags struct {
	// OutputFormat is table, pretty, json or yaml. Empty means the profile
	// or config default.
	OutputFormat string
	NoHeaders    bool
	Quiet        bool
	// Debug logs every API call. It overrides LogLevel.
	Debug bool
	// LogLevel is debug, info, warn or error. Empty means warn.
	LogLevel string
	// ConfigPath is the directory holding config.yaml and profiles.yaml.
	ConfigPath string
	// Endpoint overrides the API endpoint.
	Endpoint string
	// Profile selects a named profile.
	Profile string
}

// RegisterCommonFlags registers the global flags on cmd:
//   - --output/-o: table, pretty, json or yaml
//   - --no-headers: suppress the table header row
//   - --quiet/-q: suppress progress and success messages
//   - --debug: log API calls to stderr
//   - --log-level: stderr log level (debug, info, warn, error)
//   - --config-path: configuration directory
//   - --endpoint: API endpoint (env: SL_API_ENDPOINT)
//   - --profile: named profile (env: SL_PROFILE)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags, defaultConfigPath string) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.OutputFormat, "output", "o", "", "Output format (table, pretty, json, yaml)")
	pf.BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging (show API calls)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.ConfigPath, "config-path", defaultConfigPath, "Configuration directory")
	pf.StringVar(&flags.Endpoint, "endpoint", "", "SoftLayer API endpoint URL (env: SL_API_ENDPOINT)")
	pf.StringVar(&flags.Profile, "profile", "", "Use a specific profile (env: SL_PROFILE)")
}

// RegisterForceFlag adds -f/--force, which skips confirmation prompts.
func RegisterForceFlag(cmd *cobra.Command, force *bool) {
	cmd.Flags().BoolVarP(force, "force", "f", false, "Skip the confirmation prompt")
}

// ProfileCompletion completes profile names.
func ProfileCompletion(configPath func() string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names, err := profileStorage(configPath()).Names()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

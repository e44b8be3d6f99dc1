package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"slcli/internal/cci"
	"slcli/internal/config"
	"slcli/internal/dns"
	"slcli/internal/guard"
	"slcli/internal/profile"
	"slcli/internal/softlayer"
	"slcli/internal/sshkey"
	"slcli/pkg/logging"

	"github.com/caarlos0/env/v11"
)

// IOStreams are the standard streams a command talks to.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// StdStreams returns the process streams.
func StdStreams() IOStreams {
	return IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// Credentials are the resolved connection settings.
type Credentials struct {
	Endpoint    string
	Username    string
	APIKey      string
	AccessToken string
	// Source says where the credentials came from, e.g. "profile prod".
	Source string
	// Output is the profile's preferred output format, if any.
	Output string
}

// envCredentials are the credential variables read directly from the
// environment so they can outrank profiles.
type envCredentials struct {
	Endpoint    string `env:"SL_API_ENDPOINT"`
	Username    string `env:"SL_USERNAME"`
	APIKey      string `env:"SL_API_KEY"`
	AccessToken string `env:"SL_ACCESS_TOKEN"`
}

func (e envCredentials) complete() bool {
	return e.AccessToken != "" || (e.Username != "" && e.APIKey != "")
}

func profileStorage(configPath string) *profile.Storage {
	return profile.NewStorageWithPath(configPath)
}

// ResolveCredentials picks credentials in precedence order: the --profile
// flag, SL_* credential variables, SL_PROFILE, the current profile and
// finally config.yaml. The endpoint follows --endpoint, SL_API_ENDPOINT,
// the chosen profile and config.yaml.
func ResolveCredentials(flags *CommandFlags, cfg config.Config, store *profile.Storage) (Credentials, error) {
	fromEnv, err := env.ParseAs[envCredentials]()
	if err != nil {
		return Credentials{}, fmt.Errorf("invalid environment: %w", err)
	}

	var p *profile.Profile
	switch {
	case flags.Profile != "":
		if p, err = store.Get(flags.Profile); err != nil {
			return Credentials{}, err
		}
	case fromEnv.complete():
	case cfg.Profile != "":
		if p, err = store.Get(cfg.Profile); err != nil {
			return Credentials{}, err
		}
	default:
		if p, err = store.Current(); err != nil {
			return Credentials{}, err
		}
	}

	creds := Credentials{
		Endpoint:    cfg.API.Endpoint,
		Username:    cfg.API.Username,
		APIKey:      cfg.API.APIKey,
		AccessToken: cfg.API.AccessToken,
		Source:      "config",
	}
	if fromEnv.complete() && p == nil {
		creds.Username, creds.APIKey, creds.AccessToken = fromEnv.Username, fromEnv.APIKey, fromEnv.AccessToken
		creds.Source = "environment"
	}
	if p != nil {
		creds.Username, creds.APIKey, creds.AccessToken = p.Username, p.APIKey, p.AccessToken
		creds.Source = "profile " + p.Name
		if p.Endpoint != "" {
			creds.Endpoint = p.Endpoint
		}
		if p.Settings != nil {
			creds.Output = p.Settings.Output
		}
	}

	switch {
	case flags.Endpoint != "":
		creds.Endpoint = flags.Endpoint
	case fromEnv.Endpoint != "":
		creds.Endpoint = fromEnv.Endpoint
	}
	return creds, nil
}

// Session carries everything a command needs. Commands receive it instead
// of building clients themselves.
type Session struct {
	Config      config.Config
	Credentials Credentials
	Client      *softlayer.Client
	CCI         *cci.Manager
	DNS         *dns.Manager
	SSHKeys     *sshkey.Manager
	Prompter    *guard.Prompter
	Printer     *Printer
	Streams     IOStreams
}

// NewSession loads configuration and credentials and wires the managers.
func NewSession(flags *CommandFlags, streams IOStreams) (*Session, error) {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	creds, err := ResolveCredentials(flags, cfg, profileStorage(flags.ConfigPath))
	if err != nil {
		return nil, err
	}

	format := flags.OutputFormat
	if format == "" {
		format = creds.Output
	}
	if format == "" {
		format = cfg.Output
	}
	if err := ValidateOutputFormat(format); err != nil {
		return nil, guard.Invalid("output", "%v", err)
	}

	client, err := softlayer.NewClient(softlayer.Options{
		Endpoint:          creds.Endpoint,
		Username:          creds.Username,
		APIKey:            creds.APIKey,
		AccessToken:       creds.AccessToken,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the API using %s credentials: %w", creds.Source, err)
	}
	logging.Debug("Session", "using %s at %s", creds.Source, client.Endpoint())

	return &Session{
		Config:      cfg,
		Credentials: creds,
		Client:      client,
		CCI:         cci.NewManager(client, cci.Options{PollInterval: cfg.CCI.PollInterval}),
		DNS:         dns.NewManager(client),
		SSHKeys:     sshkey.NewManager(client),
		Prompter:    guard.NewPrompter(streams.In, streams.ErrOut),
		Printer: &Printer{
			Format:    OutputFormat(format),
			NoHeaders: flags.NoHeaders,
			Quiet:     flags.Quiet,
			Out:       streams.Out,
			ErrOut:    streams.ErrOut,
		},
		Streams: streams,
	}, nil
}

// CCIGuard returns the guard for CCI mutations.
func (s *Session) CCIGuard() *guard.Guard {
	return guard.New(s.CCI.Resolver(), s.Prompter)
}

// DNSSyncer returns the DNS sync flow.
func (s *Session) DNSSyncer() *dns.Syncer {
	return dns.NewSyncer(s.CCI, s.CCIGuard(), s.DNS)
}

// ResolveCCI resolves a CCI identifier for read-only commands.
func (s *Session) ResolveCCI(ctx context.Context, ref string) (int, error) {
	return s.CCI.Resolver().Resolve(ctx, ref)
}

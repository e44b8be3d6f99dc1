package config

import "time"

// Config is the complete slcli configuration.
type Config struct {
	API APIConfig `yaml:"api"`
	CCI CCIConfig `yaml:"cci"`
	DNS DNSConfig `yaml:"dns"`
	// Output is the default output format.
	Output string `yaml:"output,omitempty" env:"SL_OUTPUT"`
	// Profile selects a named profile. Only the environment sets it.
	Profile string `yaml:"-" env:"SL_PROFILE"`
}

// APIConfig controls the SoftLayer API connection.
type APIConfig struct {
	Endpoint          string        `yaml:"endpoint,omitempty" env:"SL_API_ENDPOINT"`
	Timeout           time.Duration `yaml:"timeout,omitempty" env:"SL_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests-per-second,omitempty" env:"SL_REQUESTS_PER_SECOND"`
	Username          string        `yaml:"username,omitempty" env:"SL_USERNAME"`
	APIKey            string        `yaml:"api-key,omitempty" env:"SL_API_KEY"`
	AccessToken       string        `yaml:"access-token,omitempty" env:"SL_ACCESS_TOKEN"`
}

// HasCredentials reports whether the API section can authenticate.
func (c APIConfig) HasCredentials() bool {
	return c.AccessToken != "" || (c.Username != "" && c.APIKey != "")
}

// CCIConfig holds virtual guest settings.
type CCIConfig struct {
	// PollInterval is the delay between readiness checks.
	PollInterval time.Duration `yaml:"poll-interval,omitempty" env:"SL_POLL_INTERVAL"`
}

// DNSConfig holds DNS settings.
type DNSConfig struct {
	TTL int `yaml:"ttl,omitempty"`
}

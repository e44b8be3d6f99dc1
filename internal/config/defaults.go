package config

import "time"

const (
	// DefaultEndpoint is the public SoftLayer REST endpoint.
	DefaultEndpoint = "https://api.softlayer.com/rest/v3.1"
	// DefaultPrivateEndpoint is reachable only from the SoftLayer private network.
	DefaultPrivateEndpoint = "https://api.service.softlayer.com/rest/v3.1"

	DefaultTimeout           = 60 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultPollInterval      = 10 * time.Second
	DefaultTTL               = 7200
	DefaultOutput            = "table"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			Endpoint:          DefaultEndpoint,
			Timeout:           DefaultTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		CCI:    CCIConfig{PollInterval: DefaultPollInterval},
		DNS:    DNSConfig{TTL: DefaultTTL},
		Output: DefaultOutput,
	}
}

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidOutputFormats lists the accepted values of output.
var ValidOutputFormats = []string{"table", "pretty", "json", "yaml"}

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors reports whether any error was collected.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add records an error for field.
func (ve *ValidationErrors) Add(field, message string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Value: value, Message: message})
}

// Validate checks cfg and returns every problem found.
func Validate(cfg Config) ValidationErrors {
	var errs ValidationErrors

	if u, err := url.Parse(cfg.API.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs.Add("api.endpoint", "must be an absolute URL", cfg.API.Endpoint)
	}
	if cfg.API.Timeout <= 0 {
		errs.Add("api.timeout", "must be positive", cfg.API.Timeout)
	}
	if cfg.API.RequestsPerSecond < 0 {
		errs.Add("api.requests-per-second", "cannot be negative", cfg.API.RequestsPerSecond)
	}
	if cfg.API.Username != "" && cfg.API.APIKey == "" {
		errs.Add("api.api-key", "is required when api.username is set", "")
	}
	if cfg.CCI.PollInterval <= 0 {
		errs.Add("cci.poll-interval", "must be positive", cfg.CCI.PollInterval)
	}
	if cfg.DNS.TTL <= 0 {
		errs.Add("dns.ttl", "must be positive", cfg.DNS.TTL)
	}
	if !IsValidOutputFormat(cfg.Output) {
		errs.Add("output", fmt.Sprintf("must be one of %s", strings.Join(ValidOutputFormats, ", ")), cfg.Output)
	}
	return errs
}

// IsValidOutputFormat reports whether format is a supported output format.
func IsValidOutputFormat(format string) bool {
	for _, f := range ValidOutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ConnectionErrorType categorizes the type of connection error.
type ConnectionErrorType int

const (
	// ConnectionErrorUnknown indicates an unclassified connection error.
	ConnectionErrorUnknown ConnectionErrorType = iota
	// ConnectionErrorTLS indicates a TLS/certificate verification error.
	ConnectionErrorTLS
	// ConnectionErrorNetwork indicates a network connectivity error (e.g., refused, unreachable).
	ConnectionErrorNetwork
	// ConnectionErrorTimeout indicates a connection timeout.
	ConnectionErrorTimeout
	// ConnectionErrorDNS indicates a DNS resolution failure.
	ConnectionErrorDNS
)

// String returns a human-readable name for the connection error type.
func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	default:
		return "Connection error"
	}
}

// ConnectionError indicates a connection failure to an endpoint.
// It wraps the underlying error and provides categorization for better user feedback.
type ConnectionError struct {
	// Endpoint is the URL that could not be reached.
	Endpoint string
	// Type categorizes the connection error.
	Type ConnectionErrorType
	// Reason is the underlying error.
	Reason error
}

func (e *ConnectionError) Error() string {
	host := e.Endpoint
	if u, err := url.Parse(e.Endpoint); err == nil && u.Host != "" {
		host = u.Host
	}

	switch e.Type {
	case ConnectionErrorTLS:
		return fmt.Sprintf(`TLS certificate verification failed for %s: %v

Possible causes:
  - Self-signed or private CA certificate on a proxy
  - The endpoint host name does not match its certificate`, host, e.Reason)
	case ConnectionErrorNetwork:
		return fmt.Sprintf(`Connection failed to %s: %v

Possible causes:
  - No network route to the API (private endpoints need the SoftLayer VPN)
  - A proxy or firewall is blocking the connection`, host, e.Reason)
	case ConnectionErrorTimeout:
		return fmt.Sprintf(`Connection to %s timed out: %v

Try again, or raise api.timeout (SL_TIMEOUT)`, host, e.Reason)
	case ConnectionErrorDNS:
		return fmt.Sprintf(`DNS resolution failed for %s: %v

Check the endpoint (--endpoint, SL_API_ENDPOINT or the profile)`, host, e.Reason)
	default:
		return fmt.Sprintf("Connection failed to %s: %v", host, e.Reason)
	}
}

func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// Is matches any *ConnectionError.
func (e *ConnectionError) Is(target error) bool {
	_, ok := target.(*ConnectionError)
	return ok
}

// ClassifyConnectionError analyzes an error and returns a ConnectionError with the appropriate type.
// If the error is nil, returns nil.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	if err == nil {
		return nil
	}

	// Check for TLS/certificate errors
	if isTLSError(err) {
		return &ConnectionError{
			Endpoint: endpoint,
			Type:     ConnectionErrorTLS,
			Reason:   err,
		}
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ConnectionError{
			Endpoint: endpoint,
			Type:     ConnectionErrorDNS,
			Reason:   err,
		}
	}

	// Check for timeout errors
	if isTimeoutError(err) {
		return &ConnectionError{
			Endpoint: endpoint,
			Type:     ConnectionErrorTimeout,
			Reason:   err,
		}
	}

	// Check for network errors (connection refused, unreachable, etc.)
	if isNetworkError(err.Error()) {
		return &ConnectionError{
			Endpoint: endpoint,
			Type:     ConnectionErrorNetwork,
			Reason:   err,
		}
	}

	// Default to unknown connection error
	return &ConnectionError{
		Endpoint: endpoint,
		Type:     ConnectionErrorUnknown,
		Reason:   err,
	}
}

// isTLSError checks if the error is related to TLS/certificate issues.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}

	// Check for x509 certificate errors using errors.As
	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	var systemRootsErr *x509.SystemRootsError

	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) {
		return true
	}

	// Also check error message for TLS-related keywords
	// Note: "certificate" is checked broadly as it covers most TLS-related error messages
	errStr := err.Error()
	tlsKeywords := []string{
		"x509:",
		"certificate",
		"tls:",
		"TLS handshake",
	}

	for _, keyword := range tlsKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

// isTimeoutError checks if the error is a timeout.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	// Check for net.Error timeout (interface, needs manual unwrapping)
	for e := err; e != nil; {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return true
		}
		if u, ok := e.(interface{ Unwrap() error }); ok {
			e = u.Unwrap()
		} else {
			break
		}
	}

	// Check for url.Error timeout
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	// Check error message
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isNetworkError checks if the error string indicates a network connectivity issue.
func isNetworkError(errStr string) bool {
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connect:",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

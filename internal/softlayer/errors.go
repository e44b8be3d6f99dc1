package softlayer

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoCredentials is returned by NewClient when neither an API key nor an
// access token is configured.
var ErrNoCredentials = errors.New("no SoftLayer credentials configured")

// RemoteOperationError is a failure reported by the SoftLayer API itself,
// for example a permission problem or a business-rule violation. The message
// is the API's own text and is shown to the user unchanged.
type RemoteOperationError struct {
	// Service is the SoftLayer service that was called (e.g. SoftLayer_Virtual_Guest).
	Service string
	// Method is the remote method name (e.g. powerOffSoft).
	Method string
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the SoftLayer exception class, when the API provided one.
	Code string
	// Message is the API error text.
	Message string
}

// Error returns the remote error in "Service::method: code: message" form.
func (e *RemoteOperationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Service)
	sb.WriteString("::")
	sb.WriteString(e.Method)
	sb.WriteString(": ")
	if e.Code != "" {
		sb.WriteString(e.Code)
		sb.WriteString(": ")
	}
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	return sb.String()
}

// IsNotFound reports whether err is a RemoteOperationError for a missing object.
func IsNotFound(err error) bool {
	var remoteErr *RemoteOperationError
	if !errors.As(err, &remoteErr) {
		return false
	}
	return remoteErr.StatusCode == http.StatusNotFound ||
		remoteErr.Code == "SoftLayer_Exception_ObjectNotFound" ||
		remoteErr.Code == "SoftLayer_Exception_NotFound"
}

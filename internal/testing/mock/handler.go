package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Call is one request received by the APIServer.
type Call struct {
	Service string
	Method  string
	// ID is the object ID from the URL, or zero.
	ID int
	// HTTPMethod is GET or POST.
	HTTPMethod string
	// Mask, Filter and Limit are the raw query parameters.
	Mask   string
	Filter string
	Limit  string
	// Parameters are the raw positional parameters of a POST.
	Parameters []json.RawMessage
	// Username and APIKey are set for basic auth; Authorization holds the
	// raw header otherwise.
	Username      string
	APIKey        string
	Authorization string
}

// Key returns "Service::method".
func (c Call) Key() string {
	return c.Service + "::" + c.Method
}

// Param decodes positional parameter i into v.
func (c Call) Param(i int, v interface{}) error {
	if i >= len(c.Parameters) {
		return fmt.Errorf("%s has %d parameters, wanted index %d", c.Key(), len(c.Parameters), i)
	}
	return json.Unmarshal(c.Parameters[i], v)
}

// HandlerFunc produces the result of a call. Returning a *Fault sends a
// SoftLayer error response.
type HandlerFunc func(call Call) (interface{}, error)

// Fault is a SoftLayer API error returned by a handler.
type Fault struct {
	Status  int
	Code    string
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// NotFound returns the fault SoftLayer sends for a missing object.
func NotFound(message string) *Fault {
	return &Fault{Status: http.StatusNotFound, Code: "SoftLayer_Exception_ObjectNotFound", Message: message}
}

// responder serves a MethodConfig.
type responder struct {
	config MethodConfig
}

// handle picks the first matching response, falling back to the first one.
func (r *responder) handle(call Call) (interface{}, error) {
	var selected *MethodResponse
	for i := range r.config.Responses {
		if r.config.Responses[i].Condition.matches(call) {
			selected = &r.config.Responses[i]
			break
		}
	}
	if selected == nil && len(r.config.Responses) > 0 {
		selected = &r.config.Responses[0]
	}
	if selected == nil {
		return nil, fmt.Errorf("no response configured for %s", call.Key())
	}

	if selected.Error != "" {
		status := selected.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return nil, &Fault{Status: status, Code: selected.Code, Message: selected.Error}
	}
	return normalize(selected.Result), nil
}

func (c *Condition) matches(call Call) bool {
	if c == nil {
		return true
	}
	if c.ID != 0 && c.ID != call.ID {
		return false
	}
	if c.Filter != "" && !strings.Contains(call.Filter, c.Filter) {
		return false
	}
	if c.Mask != "" && !strings.Contains(call.Mask, c.Mask) {
		return false
	}
	return true
}

// normalize converts the map[interface{}]interface{} values some YAML
// decoders produce into JSON-encodable maps.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalize(item)
		}
		return out
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"
)

// APIServer is a fake SoftLayer REST endpoint.
type APIServer struct {
	server *httptest.Server

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []Call
}

// NewAPIServer starts an APIServer that is closed when the test ends.
func NewAPIServer(t testing.TB) *APIServer {
	t.Helper()
	s := &APIServer{handlers: make(map[string]HandlerFunc)}
	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.server.Close)
	return s
}

// NewAPIServerFromFile starts an APIServer preloaded with a YAML fixture.
func NewAPIServerFromFile(t testing.TB, path string) *APIServer {
	t.Helper()
	s := NewAPIServer(t)
	if err := s.LoadFile(path); err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	return s
}

// URL is the REST endpoint to configure clients with.
func (s *APIServer) URL() string {
	return s.server.URL
}

// Handle registers fn for Service::method, replacing any earlier handler.
func (s *APIServer) Handle(service, method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[service+"::"+method] = fn
}

// Respond registers a fixed result for Service::method.
func (s *APIServer) Respond(service, method string, result interface{}) {
	s.Handle(service, method, func(Call) (interface{}, error) {
		return result, nil
	})
}

// Fail registers a SoftLayer error for Service::method.
func (s *APIServer) Fail(service, method, code, message string) {
	s.Handle(service, method, func(Call) (interface{}, error) {
		return nil, &Fault{Status: http.StatusInternalServerError, Code: code, Message: message}
	})
}

// Load registers the given method configurations.
func (s *APIServer) Load(methods []MethodConfig) {
	for _, m := range methods {
		r := &responder{config: m}
		s.Handle(m.Service, m.Method, r.handle)
	}
}

// LoadFile registers the methods of a YAML fixture file.
func (s *APIServer) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(content, &fixture); err != nil {
		return fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	s.Load(fixture.Methods)
	return nil
}

// Calls returns every recorded call in arrival order.
func (s *APIServer) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls of Service::method.
func (s *APIServer) CallsTo(service, method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Service == service && c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how often Service::method was called.
func (s *APIServer) Count(service, method string) int {
	return len(s.CallsTo(service, method))
}

func (s *APIServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	call, err := parseCall(r)
	if err != nil {
		writeFault(w, &Fault{Status: http.StatusBadRequest, Code: "SoftLayer_Exception_Public", Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	handler, ok := s.handlers[call.Key()]
	s.mu.Unlock()

	if !ok {
		writeFault(w, &Fault{
			Status:  http.StatusNotFound,
			Code:    "SoftLayer_Exception_MethodNotFound",
			Message: fmt.Sprintf("no mock registered for %s", call.Key()),
		})
		return
	}

	result, err := handler(call)
	if err != nil {
		var fault *Fault
		if !errors.As(err, &fault) {
			fault = &Fault{Status: http.StatusInternalServerError, Code: "SoftLayer_Exception", Message: err.Error()}
		}
		writeFault(w, fault)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// parseCall decodes /{Service}[/{ID}]/{Method}.json plus query and body.
func parseCall(r *http.Request) (Call, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return Call{}, fmt.Errorf("unexpected path %q", r.URL.Path)
	}

	call := Call{
		Service:       parts[0],
		Method:        strings.TrimSuffix(parts[len(parts)-1], ".json"),
		HTTPMethod:    r.Method,
		Mask:          r.URL.Query().Get("objectMask"),
		Filter:        r.URL.Query().Get("objectFilter"),
		Limit:         r.URL.Query().Get("resultLimit"),
		Authorization: r.Header.Get("Authorization"),
	}
	if len(parts) == 3 {
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return Call{}, fmt.Errorf("invalid object ID %q", parts[1])
		}
		call.ID = id
	}
	call.Username, call.APIKey, _ = r.BasicAuth()

	if r.Method == http.MethodPost {
		var body struct {
			Parameters []json.RawMessage `json:"parameters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return Call{}, fmt.Errorf("invalid request body: %w", err)
		}
		call.Parameters = body.Parameters
	}
	return call, nil
}

func writeFault(w http.ResponseWriter, fault *Fault) {
	status := fault.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fault.Message,
		"code":  fault.Code,
	})
}

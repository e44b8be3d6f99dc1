package softlayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"slcli/pkg/logging"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the public SoftLayer REST endpoint.
	DefaultEndpoint = "https://api.softlayer.com/rest/v3.1"
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 32 << 20
	defaultUserAgent = "slcli"
)

// Request describes one remote procedure call.
type Request struct {
	// Service is the SoftLayer service name, e.g. SoftLayer_Virtual_Guest.
	Service string
	// Method is the remote method, e.g. getObject.
	Method string
	// ID is the init parameter (object ID); zero means none.
	ID int
	// Mask is the object mask, with or without the "mask[...]" wrapper.
	Mask string
	// Filter is the object filter.
	Filter Filter
	// Limit and Offset page results when Limit is positive.
	Limit  int
	Offset int
	// Parameters are the positional method parameters.
	Parameters []interface{}
}

// String identifies the request in logs and errors.
func (r Request) String() string {
	if r.ID != 0 {
		return fmt.Sprintf("%s::%s(id=%d)", r.Service, r.Method, r.ID)
	}
	return fmt.Sprintf("%s::%s", r.Service, r.Method)
}

// Caller issues SoftLayer API calls and decodes the result into result,
// which may be nil when the response body is not needed.
type Caller interface {
	Call(ctx context.Context, req Request, result interface{}) error
}

// Options configures a Client.
type Options struct {
	// Endpoint is the REST base URL. Defaults to DefaultEndpoint.
	Endpoint string
	// Username and APIKey enable HTTP basic authentication.
	Username string
	APIKey   string
	// AccessToken enables bearer authentication and takes precedence over APIKey.
	AccessToken string
	// Timeout bounds each call. Defaults to DefaultTimeout.
	Timeout time.Duration
	// RequestsPerSecond limits the call rate; zero or less disables limiting.
	RequestsPerSecond float64
	// UserAgent is sent with every request.
	UserAgent string
	// Transport overrides the base HTTP transport (tests).
	Transport http.RoundTripper
}

// Client is the REST implementation of Caller.
type Client struct {
	endpoint   string
	username   string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.AccessToken == "" && (opts.Username == "" || opts.APIKey == "") {
		return nil, ErrNoCredentials
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid API endpoint %q: %w", opts.Endpoint, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	transport := base
	if opts.AccessToken != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: opts.AccessToken,
				TokenType:   "Bearer",
			}),
			Base: base,
		}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		endpoint:   endpoint,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		limiter:    rate.NewLimiter(limit, 1),
	}
	if opts.AccessToken == "" {
		c.username = opts.Username
		c.apiKey = opts.APIKey
	}
	return c, nil
}

// Endpoint returns the REST base URL in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call implements Caller.
func (c *Client) Call(ctx context.Context, req Request, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", req, err)
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logging.Debug("API", "%s %s failed after %s", httpReq.Method, req, time.Since(start))
		return fmt.Errorf("%s: %w", req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", req, err)
	}
	logging.Debug("API", "%s %s -> %d (%s)", httpReq.Method, req, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeRemoteError(req, resp.StatusCode, body)
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", req, err)
	}
	return nil
}

// newHTTPRequest builds the HTTP request for req.
func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	if req.Service == "" || req.Method == "" {
		return nil, fmt.Errorf("request needs both service and method, got %q", req.String())
	}

	var sb strings.Builder
	sb.WriteString(c.endpoint)
	sb.WriteString("/")
	sb.WriteString(req.Service)
	if req.ID != 0 {
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(req.ID))
	}
	sb.WriteString("/")
	sb.WriteString(req.Method)
	sb.WriteString(".json")

	query := url.Values{}
	if req.Mask != "" {
		mask := req.Mask
		if !strings.HasPrefix(mask, "mask") {
			mask = "mask[" + mask + "]"
		}
		query.Set("objectMask", mask)
	}
	if !req.Filter.Empty() {
		filter, err := json.Marshal(req.Filter)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode object filter: %w", req, err)
		}
		query.Set("objectFilter", string(filter))
	}
	if req.Limit > 0 {
		query.Set("resultLimit", fmt.Sprintf("%d,%d", req.Offset, req.Limit))
	}
	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(query.Encode())
	}

	method := http.MethodGet
	var body io.Reader
	if len(req.Parameters) > 0 {
		payload, err := json.Marshal(map[string]interface{}{"parameters": req.Parameters})
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode parameters: %w", req, err)
		}
		method = http.MethodPost
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, sb.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.SetBasicAuth(c.username, c.apiKey)
	}
	return httpReq, nil
}

// decodeRemoteError turns an error response into a RemoteOperationError.
func decodeRemoteError(req Request, status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	remoteErr := &RemoteOperationError{
		Service:    req.Service,
		Method:     req.Method,
		StatusCode: status,
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		remoteErr.Code = payload.Code
		remoteErr.Message = payload.Error
	} else {
		remoteErr.Message = strings.TrimSpace(string(body))
	}
	return remoteErr
}

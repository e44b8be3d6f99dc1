package softlayer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Options{Username: "user"})
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewClient(Options{APIKey: "key"})
	assert.ErrorIs(t, err, ErrNoCredentials)

	c, err := NewClient(Options{AccessToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
}

func TestNewClient_RejectsInvalidEndpoint(t *testing.T) {
	_, err := NewClient(Options{Username: "u", APIKey: "k", Endpoint: "not a url"})
	assert.Error(t, err)
}

func TestClient_CallGetWithMaskFilterAndLimit(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`[{"id":1,"hostname":"web01"}]`))
	}))
	defer server.Close()

	c, err := NewClient(Options{Endpoint: server.URL + "/", Username: "user", APIKey: "secret"})
	require.NoError(t, err)

	var guests []VirtualGuest
	err = c.Call(context.Background(), Request{
		Service: ServiceAccount,
		Method:  "getVirtualGuests",
		Mask:    "id,hostname",
		Filter:  Filter{}.Set("virtualGuests.hostname", QueryFilter("web01")),
		Limit:   10,
	}, &guests)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/SoftLayer_Account/getVirtualGuests.json", got.URL.Path)
	assert.Equal(t, "mask[id,hostname]", got.URL.Query().Get("objectMask"))
	assert.JSONEq(t, `{"virtualGuests":{"hostname":{"operation":"_= web01"}}}`, got.URL.Query().Get("objectFilter"))
	assert.Equal(t, "0,10", got.URL.Query().Get("resultLimit"))

	user, pass, ok := got.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "secret", pass)

	require.Len(t, guests, 1)
	assert.Equal(t, "web01", guests[0].Hostname)
}

func TestClient_CallPostsParameters(t *testing.T) {
	var path, method string
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		_, _ = w.Write([]byte(`true`))
	}))
	defer server.Close()

	c, err := NewClient(Options{Endpoint: server.URL, Username: "u", APIKey: "k"})
	require.NoError(t, err)

	var ok bool
	err = c.Call(context.Background(), Request{
		Service:    ServiceVirtualGuest,
		Method:     "setPublicNetworkInterfaceSpeed",
		ID:         1234,
		Parameters: []interface{}{100},
	}, &ok)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/SoftLayer_Virtual_Guest/1234/setPublicNetworkInterfaceSpeed.json", path)
	assert.Equal(t, []interface{}{float64(100)}, body["parameters"])
}

func TestClient_BearerToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := NewClient(Options{Endpoint: server.URL, AccessToken: "abc", APIKey: "ignored", Username: "u"})
	require.NoError(t, err)

	require.NoError(t, c.Call(context.Background(), Request{Service: ServiceAccount, Method: "getObject"}, nil))
	assert.Equal(t, "Bearer abc", auth)
}

func TestClient_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Unable to find object with id of '9'.","code":"SoftLayer_Exception_ObjectNotFound"}`))
	}))
	defer server.Close()

	c, err := NewClient(Options{Endpoint: server.URL, Username: "u", APIKey: "k"})
	require.NoError(t, err)

	err = c.Call(context.Background(), Request{Service: ServiceVirtualGuest, Method: "getObject", ID: 9}, &VirtualGuest{})
	require.Error(t, err)

	var remoteErr *RemoteOperationError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Equal(t, "SoftLayer_Virtual_Guest::getObject: SoftLayer_Exception_ObjectNotFound: Unable to find object with id of '9'.", remoteErr.Error())
	assert.True(t, IsNotFound(err))
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable\n"))
	}))
	defer server.Close()

	c, err := NewClient(Options{Endpoint: server.URL, Username: "u", APIKey: "k"})
	require.NoError(t, err)

	err = c.Call(context.Background(), Request{Service: ServiceAccount, Method: "getObject"}, nil)
	var remoteErr *RemoteOperationError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "upstream unavailable", remoteErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	c, err := NewClient(Options{Endpoint: server.URL, Username: "u", APIKey: "k", RequestsPerSecond: 100})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Call(ctx, Request{Service: ServiceAccount, Method: "getObject"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequest_String(t *testing.T) {
	assert.Equal(t, "SoftLayer_Virtual_Guest::pause(id=7)", Request{Service: ServiceVirtualGuest, Method: "pause", ID: 7}.String())
	assert.Equal(t, "SoftLayer_Account::getDomains", Request{Service: ServiceAccount, Method: "getDomains"}.String())
}

package cci

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
	"slcli/internal/testing/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *mock.APIServer) {
	t.Helper()
	api := mock.NewAPIServer(t)
	client, err := softlayer.NewClient(softlayer.Options{
		Endpoint: api.URL(),
		Username: "tester",
		APIKey:   "secret",
	})
	require.NoError(t, err)

	clock := mock.NewMockClock(time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC))
	return NewManager(client, Options{PollInterval: 5 * time.Millisecond, Now: clock.Now}), api
}

func TestList_FiltersAndMethod(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceAccount, "getHourlyVirtualGuests", []map[string]interface{}{
		{"id": 1, "hostname": "web01", "maxMemory": 2048},
	})

	guests, err := m.List(context.Background(), ListOptions{
		Hourly:     true,
		Datacenter: "dal05",
		Memory:     ">= 2048",
		CPUs:       "2",
		Tags:       []string{"production", "db"},
	})
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, 2048, guests[0].MaxMemory)

	calls := api.CallsTo(softlayer.ServiceAccount, "getHourlyVirtualGuests")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"virtualGuests":{
		"datacenter":{"name":{"operation":"_= dal05"}},
		"maxMemory":{"operation":">= 2048"},
		"maxCpu":{"operation":2},
		"tagReferences":{"tag":{"name":{"operation":"in","options":[{"name":"data","value":["production","db"]}]}}}
	}}`, calls[0].Filter)
	assert.Contains(t, calls[0].Mask, "fullyQualifiedDomainName")
}

func TestList_HourlyAndMonthlyUsesAllGuests(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceAccount, "getVirtualGuests", []interface{}{})

	_, err := m.List(context.Background(), ListOptions{Hourly: true, Monthly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, api.Count(softlayer.ServiceAccount, "getVirtualGuests"))
	assert.Empty(t, api.CallsTo(softlayer.ServiceAccount, "getVirtualGuests")[0].Filter)
}

func TestResolver_NumericTokenMakesNoCalls(t *testing.T) {
	m, api := newTestManager(t)

	id, err := m.Resolver().Resolve(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, 1234, id)
	assert.Empty(t, api.Calls())
}

func TestResolver_HostnameMatch(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceAccount, "getVirtualGuests", []map[string]interface{}{{"id": 42}})

	id, err := m.Resolver().Resolve(context.Background(), "db01")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	calls := api.Calls()
	require.Len(t, calls, 1, "non-IP tokens only run the hostname lookup")
	assert.Contains(t, calls[0].Filter, `"hostname"`)
	assert.Equal(t, "mask[id]", calls[0].Mask)
}

func TestResolver_AmbiguousHostname(t *testing.T) {
	m, api := newTestManager(t)
	api.Load([]mock.MethodConfig{{
		Service: softlayer.ServiceAccount,
		Method:  "getVirtualGuests",
		Responses: []mock.MethodResponse{
			{
				Condition: &mock.Condition{Filter: "web01"},
				Result: []interface{}{
					map[string]interface{}{"id": 101, "fullyQualifiedDomainName": "web01.example.com"},
					map[string]interface{}{"id": 202, "fullyQualifiedDomainName": "web01.example.org"},
				},
			},
		},
	}})

	_, err := m.Resolver().Resolve(context.Background(), "web01")
	var ambiguous *guard.AmbiguousIdentifierError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []int{101, 202}, ambiguous.Candidates)
}

func TestResolver_IPFallsBackToBackend(t *testing.T) {
	m, api := newTestManager(t)
	api.Handle(softlayer.ServiceAccount, "getVirtualGuests", func(c mock.Call) (interface{}, error) {
		var filter map[string]map[string]interface{}
		if err := json.Unmarshal([]byte(c.Filter), &filter); err != nil {
			return nil, err
		}
		if _, ok := filter["virtualGuests"]["primaryBackendIpAddress"]; ok {
			return []map[string]interface{}{{"id": 77}}, nil
		}
		return []interface{}{}, nil
	})

	id, err := m.Resolver().Resolve(context.Background(), "10.0.0.9")
	require.NoError(t, err)
	assert.Equal(t, 77, id)
	// hostname, public IP, backend IP
	assert.Equal(t, 3, api.Count(softlayer.ServiceAccount, "getVirtualGuests"))
}

func TestResolver_NotFound(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceAccount, "getVirtualGuests", []interface{}{})

	_, err := m.Resolver().Resolve(context.Background(), "ghost")
	var notFound *guard.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "CCI", notFound.Kind)
}

func TestGet_DecodesTypedRecord(t *testing.T) {
	m, api := newTestManager(t)
	api.Respond(softlayer.ServiceVirtualGuest, "getObject", map[string]interface{}{
		"id":                       5,
		"fullyQualifiedDomainName": "db01.example.com",
		"datacenter":               map[string]interface{}{"name": "dal05"},
		"billingItem":              map[string]interface{}{"recurringFee": "48.5"},
		"tagReferences":            []interface{}{map[string]interface{}{"tag": map[string]interface{}{"name": "db"}}},
	})

	guest, err := m.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "dal05", guest.DatacenterName())
	assert.Equal(t, "48.50", guest.BillingItem.RecurringFee.String())
	assert.Equal(t, []string{"db"}, guest.Tags())
	assert.Equal(t, 5, api.CallsTo(softlayer.ServiceVirtualGuest, "getObject")[0].ID)
}

package dns

import (
	"context"
	"fmt"
	"strings"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
	"slcli/pkg/logging"
)

// ZoneKind names zones in resolution errors.
const ZoneKind = "zone"

// DefaultTTL is the record TTL used when none is given.
const DefaultTTL = 7200

const recordMask = "id,domainId,host,type,data,ttl"

// ZoneNotFoundError indicates that a zone ID does not exist.
type ZoneNotFoundError struct {
	ZoneID int
	Domain string
}

func (e *ZoneNotFoundError) Error() string {
	if e.Domain != "" {
		return fmt.Sprintf("no zone found matching: %s", e.Domain)
	}
	return fmt.Sprintf("zone %d not found", e.ZoneID)
}

// Manager performs DNS operations.
type Manager struct {
	caller softlayer.Caller
}

// NewManager creates a Manager.
func NewManager(caller softlayer.Caller) *Manager {
	return &Manager{caller: caller}
}

// Resolver resolves zone names (or IDs) to zone IDs.
func (m *Manager) Resolver() *guard.Resolver {
	return guard.NewResolver(ZoneKind, m.idsFromName)
}

func (m *Manager) idsFromName(ctx context.Context, name string) ([]int, error) {
	var zones []softlayer.Domain
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceAccount,
		Method:  "getDomains",
		Mask:    "id,name",
		Filter:  softlayer.Filter{}.Set("domains.name", softlayer.QueryFilter(name)),
	}, &zones)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(zones))
	for _, z := range zones {
		ids = append(ids, z.ID)
	}
	return ids, nil
}

// GetZone returns zone id with its records.
func (m *Manager) GetZone(ctx context.Context, id int) (*softlayer.Domain, error) {
	var zone softlayer.Domain
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceDNSDomain,
		Method:  "getObject",
		ID:      id,
		Mask:    "id,name,serial,resourceRecords",
	}, &zone)
	if err != nil {
		if softlayer.IsNotFound(err) {
			return nil, &ZoneNotFoundError{ZoneID: id}
		}
		return nil, err
	}
	return &zone, nil
}

// RecordFilter narrows Records. Empty fields match everything.
type RecordFilter struct {
	Host string
	Type string
	Data string
	TTL  int
}

// Records returns the records of zone id matching filter.
func (m *Manager) Records(ctx context.Context, zoneID int, filter RecordFilter) ([]softlayer.ResourceRecord, error) {
	f := softlayer.Filter{}
	if filter.Host != "" {
		f.Set("resourceRecords.host", softlayer.QueryFilter(filter.Host))
	}
	if filter.Type != "" {
		f.Set("resourceRecords.type", softlayer.QueryFilter(strings.ToLower(filter.Type)))
	}
	if filter.Data != "" {
		f.Set("resourceRecords.data", softlayer.QueryFilter(filter.Data))
	}
	if filter.TTL != 0 {
		f.Set("resourceRecords.ttl", softlayer.ExactFilter(filter.TTL))
	}

	var records []softlayer.ResourceRecord
	err := m.caller.Call(ctx, softlayer.Request{
		Service: softlayer.ServiceDNSDomain,
		Method:  "getResourceRecords",
		ID:      zoneID,
		Mask:    recordMask,
		Filter:  f,
	}, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord adds a record to zone zoneID.
func (m *Manager) CreateRecord(ctx context.Context, zoneID int, host, recordType, data string, ttl int) (*softlayer.ResourceRecord, error) {
	record := softlayer.ResourceRecord{
		DomainID: zoneID,
		Host:     host,
		Type:     recordType,
		Data:     data,
		TTL:      ttl,
	}
	var created softlayer.ResourceRecord
	err := m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceDNSResourceRecord,
		Method:     "createObject",
		Parameters: []interface{}{record},
	}, &created)
	if err != nil {
		return nil, err
	}
	logging.Info("DNS", "created %s record %s -> %s in zone %d", recordType, host, data, zoneID)
	return &created, nil
}

// EditRecord saves changes to an existing record.
func (m *Manager) EditRecord(ctx context.Context, record softlayer.ResourceRecord) error {
	var ok bool
	err := m.caller.Call(ctx, softlayer.Request{
		Service:    softlayer.ServiceDNSResourceRecord,
		Method:     "editObject",
		ID:         record.ID,
		Parameters: []interface{}{record},
	}, &ok)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("failed to update %s record %d", record.Type, record.ID)
	}
	logging.Info("DNS", "updated %s record %s -> %s", record.Type, record.Host, record.Data)
	return nil
}

package dns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
)

// ErrNoPrimaryIP is returned when a guest has no primary public address to
// publish.
var ErrNoPrimaryIP = errors.New("no primary IP address associated with this CCI")

// Guests is the guest lookup the sync flow needs.
type Guests interface {
	Get(ctx context.Context, id int) (*softlayer.VirtualGuest, error)
	ReverseDomainRecords(ctx context.Context, id int) ([]softlayer.Domain, error)
}

// SyncOptions selects the records to sync. With neither A nor PTR set both
// are synced.
type SyncOptions struct {
	A   bool
	PTR bool
	// TTL defaults to DefaultTTL.
	TTL int
}

// RecordChange describes one created or edited record.
type RecordChange struct {
	Type    string `json:"type"`
	Host    string `json:"host"`
	Data    string `json:"data"`
	TTL     int    `json:"ttl"`
	Created bool   `json:"created"`
}

// Syncer points a guest's A and PTR records at its hostname and primary IP.
type Syncer struct {
	guests Guests
	guard  *guard.Guard
	dns    *Manager
}

// NewSyncer creates a Syncer. g resolves guest identifiers and confirms the
// update.
func NewSyncer(guests Guests, g *guard.Guard, dns *Manager) *Syncer {
	return &Syncer{guests: guests, guard: g, dns: dns}
}

// Sync resolves ref, checks the guest and its zone, asks for confirmation
// and then creates or edits the selected records.
func (s *Syncer) Sync(ctx context.Context, ref string, opts SyncOptions, forced bool) ([]RecordChange, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	guestID, err := s.guard.Resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	guest, err := s.guests.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if guest.PrimaryIPAddress == "" {
		return nil, fmt.Errorf("CCI %d: %w", guestID, ErrNoPrimaryIP)
	}

	zoneID, err := s.dns.Resolver().Resolve(ctx, guest.Domain)
	if err != nil {
		return nil, err
	}
	zone, err := s.dns.GetZone(ctx, zoneID)
	if err != nil {
		var notFound *ZoneNotFoundError
		if errors.As(err, &notFound) {
			notFound.Domain = guest.Domain
		}
		return nil, err
	}

	prompt := fmt.Sprintf("Attempt to update DNS records for %s?", guest.FullyQualifiedDomainName)
	if err := s.guard.Confirm(guestID, prompt, guard.Standard, forced); err != nil {
		return nil, err
	}

	both := !opts.A && !opts.PTR
	var changes []RecordChange
	if both || opts.A {
		change, err := s.syncA(ctx, zone, guest, opts.TTL)
		if err != nil {
			return changes, err
		}
		changes = append(changes, *change)
	}
	if both || opts.PTR {
		change, err := s.syncPTR(ctx, guest, opts.TTL)
		if err != nil {
			return changes, err
		}
		changes = append(changes, *change)
	}
	return changes, nil
}

func (s *Syncer) syncA(ctx context.Context, zone *softlayer.Domain, guest *softlayer.VirtualGuest, ttl int) (*RecordChange, error) {
	change := &RecordChange{Type: "a", Host: guest.Hostname, Data: guest.PrimaryIPAddress, TTL: ttl}

	records, err := s.dns.Records(ctx, zone.ID, RecordFilter{Host: guest.Hostname})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if _, err := s.dns.CreateRecord(ctx, zone.ID, guest.Hostname, "a", guest.PrimaryIPAddress, ttl); err != nil {
			return nil, err
		}
		change.Created = true
		return change, nil
	}

	var aRecords []softlayer.ResourceRecord
	for _, r := range records {
		if strings.EqualFold(r.Type, "a") {
			aRecords = append(aRecords, r)
		}
	}
	if len(aRecords) != 1 {
		return nil, fmt.Errorf("aborting A record sync, found %d A records for %s", len(aRecords), guest.Hostname)
	}

	record := aRecords[0]
	record.Data = guest.PrimaryIPAddress
	record.TTL = ttl
	if err := s.dns.EditRecord(ctx, record); err != nil {
		return nil, err
	}
	return change, nil
}

func (s *Syncer) syncPTR(ctx context.Context, guest *softlayer.VirtualGuest, ttl int) (*RecordChange, error) {
	octets := strings.Split(guest.PrimaryIPAddress, ".")
	host := octets[len(octets)-1]
	change := &RecordChange{Type: "ptr", Host: host, Data: guest.FullyQualifiedDomainName, TTL: ttl}

	zones, err := s.guests.ReverseDomainRecords(ctx, guest.ID)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no reverse DNS zone found for %s", guest.PrimaryIPAddress)
	}
	reverse := zones[0]

	for _, record := range reverse.ResourceRecords {
		if record.Host == host {
			record.Data = guest.FullyQualifiedDomainName
			record.TTL = ttl
			if err := s.dns.EditRecord(ctx, record); err != nil {
				return nil, err
			}
			return change, nil
		}
	}

	if _, err := s.dns.CreateRecord(ctx, reverse.ID, host, "ptr", guest.FullyQualifiedDomainName, ttl); err != nil {
		return nil, err
	}
	change.Created = true
	return change, nil
}

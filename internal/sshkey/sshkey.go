// Package sshkey looks up account SSH keys so they can be referenced by label
// when ordering or reloading a CCI.
package sshkey

import (
	"context"

	"slcli/internal/guard"
	"slcli/internal/softlayer"
)

// Kind names SSH keys in resolution errors.
const Kind = "SshKey"

// Manager reads the account's SSH keys.
type Manager struct {
	caller softlayer.Caller
}

// NewManager creates a Manager.
func NewManager(caller softlayer.Caller) *Manager {
	return &Manager{caller: caller}
}

// List returns the account's keys, optionally narrowed to a label
// expression.
func (m *Manager) List(ctx context.Context, label string) ([]softlayer.SSHKey, error) {
	req := softlayer.Request{
		Service: softlayer.ServiceAccount,
		Method:  "getSshKeys",
		Mask:    "id,label,fingerprint",
	}
	if label != "" {
		req.Filter = softlayer.Filter{}.Set("sshKeys.label", softlayer.QueryFilter(label))
	}

	var keys []softlayer.SSHKey
	if err := m.caller.Call(ctx, req, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// Resolver resolves key labels (or IDs) to key IDs.
func (m *Manager) Resolver() *guard.Resolver {
	return guard.NewResolver(Kind, m.idsFromLabel)
}

// ResolveAll resolves each ref in order.
func (m *Manager) ResolveAll(ctx context.Context, refs []string) ([]int, error) {
	resolver := m.Resolver()
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		id, err := resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *Manager) idsFromLabel(ctx context.Context, label string) ([]int, error) {
	keys, err := m.List(ctx, label)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.ID)
	}
	return ids, nil
}

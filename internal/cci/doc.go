// Package cci manages SoftLayer virtual guests (CCIs).
//
// Manager wraps a softlayer.Caller with the guest-level operations used by
// the cci commands: inventory listing with filters, detail lookups, create
// and order verification, readiness polling, and the catalogue of guarded
// actions in actions.go (cancel, power control, pause and resume, reload,
// capture, edit, port speed, upgrade).
//
// Manager.Resolver returns the identifier resolver for guests: numeric IDs
// are taken as-is, anything else is matched against hostnames and then
// against primary public and backend IP addresses.
package cci

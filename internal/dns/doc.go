// Package dns manages SoftLayer DNS zones and records and keeps a guest's
// forward (A) and reverse (PTR) records in line with its hostname and
// primary IP address.
package dns

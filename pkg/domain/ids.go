// Package domain defines the identifier and value types shared across modules.
//
// Keeping these in one leaf package lets stores, services and transport agree on
// types without importing each other.
package domain

import "strings"

// Identity is an opaque account identifier (a wallet-style address or any
// externally issued principal). Identities compare case-insensitively, so they
// are normalized to lowercase at the boundary.
type Identity string

// NormalizeIdentity lowercases and trims an identity string.
func NormalizeIdentity(s string) Identity {
	return Identity(strings.ToLower(strings.TrimSpace(s)))
}

// IsZero reports whether the identity is absent.
func (i Identity) IsZero() bool { return i == "" }

func (i Identity) String() string { return string(i) }

// RecordID identifies a registry record. IDs are 1-based, assigned densely in
// listing order, and never reused once allocated.
type RecordID uint64

// IsZero reports whether the id is the unassigned zero value.
func (r RecordID) IsZero() bool { return r == 0 }

// Amount is a quantity of funds in the smallest currency unit.
type Amount uint64

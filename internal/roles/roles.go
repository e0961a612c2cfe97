// Package roles tracks which identities hold the admin and lister
// capabilities and gates changes to those assignments behind admin.
package roles

import (
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
)

// Role is a capability bit. An identity's assignment is the union of its bits.
type Role uint8

const (
	// Admin can grant/revoke roles, pause the registry, change the base URI
	// and treasury, and passes every lister-gated check implicitly.
	Admin Role = 1 << iota
	// Lister can create listings and edit or delist its own.
	Lister
)

func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case Lister:
		return "lister"
	default:
		return "unknown"
	}
}

// Parse converts the wire representation of a single role.
func Parse(s string) (Role, error) {
	switch s {
	case "admin":
		return Admin, nil
	case "lister":
		return Lister, nil
	default:
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "unknown role %q", s)
	}
}

// Store tracks role assignments per identity.
type Store interface {
	// Grant adds the role bit to the identity's assignment.
	Grant(identity domain.Identity, role Role)
	// Revoke removes the role bit from the identity's assignment.
	Revoke(identity domain.Identity, role Role)
	// Has reports whether the identity holds the role bit. Admin does NOT
	// implicitly satisfy other roles at this layer; that policy lives in the
	// service predicate.
	Has(identity domain.Identity, role Role) bool
}

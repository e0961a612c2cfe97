package handler

import (
	"strings"

	"namehaus/internal/roles"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
)

// ListRequest is the HTTP request body for POST /records.
type ListRequest struct {
	Name  string        `json:"name"`
	Price domain.Amount `json:"price"`
}

// Validate checks required fields. Name normalization happens in the service
// so every entry point shares it.
func (r *ListRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

// SetPriceRequest is the HTTP request body for PATCH /records/{id}/price.
type SetPriceRequest struct {
	Price domain.Amount `json:"price"`
}

// MintRequest is the HTTP request body for POST /records/{id}/mint.
type MintRequest struct {
	Payment domain.Amount `json:"payment"`
}

// BaseURIRequest is the HTTP request body for PUT /base-uri.
type BaseURIRequest struct {
	BaseURI string `json:"base_uri"`
}

func (r *BaseURIRequest) Validate() error {
	if strings.TrimSpace(r.BaseURI) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "base_uri is required")
	}
	return nil
}

// PausedRequest is the HTTP request body for PUT /paused.
type PausedRequest struct {
	Paused bool `json:"paused"`
}

// RoleRequest is the HTTP request body for POST /roles/grant and /roles/revoke.
type RoleRequest struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`

	parsedIdentity domain.Identity
	parsedRole     roles.Role
}

func (r *RoleRequest) Validate() error {
	r.parsedIdentity = domain.NormalizeIdentity(r.Identity)
	if r.parsedIdentity.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "identity is required")
	}
	role, err := roles.Parse(r.Role)
	if err != nil {
		return err
	}
	r.parsedRole = role
	return nil
}

// ParsedIdentity returns the normalized target identity.
func (r *RoleRequest) ParsedIdentity() domain.Identity { return r.parsedIdentity }

// ParsedRole returns the validated role.
func (r *RoleRequest) ParsedRole() roles.Role { return r.parsedRole }

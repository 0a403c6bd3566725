// Package authz holds the per-request caller capability. It is resolved
// once by the session middleware and passed explicitly into services,
// which make every ownership and role decision against it.
package authz

import (
	"context"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser            Role = "USER"
	RoleServiceProvider Role = "SERVICE_PROVIDER"
	RoleAdmin           Role = "ADMIN"
)

// Roles lists every valid role, in display order.
var Roles = []Role{RoleUser, RoleServiceProvider, RoleAdmin}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

// Caller is who is making the request and what they own.
type Caller struct {
	UserID     uuid.UUID
	Email      string
	Name       string
	Role       Role
	ProviderID *uuid.UUID // set when the user has a provider profile
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// CanManageListings reports whether the role may create listings at all.
// Ownership is checked separately.
func (c *Caller) CanManageListings() bool {
	return c != nil && (c.Role == RoleServiceProvider || c.Role == RoleAdmin)
}

func (c *Caller) HasProvider() bool {
	return c != nil && c.ProviderID != nil
}

// OwnsProvider reports whether providerID is the caller's own profile.
func (c *Caller) OwnsProvider(providerID uuid.UUID) bool {
	return c.HasProvider() && *c.ProviderID == providerID
}

// Is reports whether the caller is the given user.
func (c *Caller) Is(userID uuid.UUID) bool {
	return c != nil && c.UserID == userID
}

// =====================================================
// CONTEXT
// =====================================================

type ctxKey struct{}

func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, caller)
}

// FromContext returns the caller stored by WithCaller, or nil.
func FromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(ctxKey{}).(*Caller)
	return caller
}

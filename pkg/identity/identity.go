// Package identity carries the authenticated principal through the request
// context. Token minting and verification belong to the fronting gateway;
// this service only consumes the identity it forwards. A request without a
// principal is a guest and gets the redacted view.
package identity

import "context"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Principal struct {
	ID   string
	Role Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanManage reports whether the principal may reschedule or cancel a booking
// created by ownerID. Admins manage everything; owners manage their own.
// Guest-created bookings (empty ownerID) are admin-managed only.
func (p *Principal) CanManage(ownerID string) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return ownerID != "" && p.ID == ownerID
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the request principal, or nil for a guest.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextKey{}).(*Principal)
	return p
}

// IsGuest reports whether the request carries no valid identity.
func IsGuest(ctx context.Context) bool {
	return FromContext(ctx) == nil
}

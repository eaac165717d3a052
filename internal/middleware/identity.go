package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Identity is the authenticated caller of a request
type Identity struct {
	MemberID  uint
	Email     string
	Authority string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the identity
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by the gate, if any
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// MemberID returns the authenticated member of the request
func MemberID(c echo.Context) (uint, bool) {
	id, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return 0, false
	}
	return id.MemberID, true
}

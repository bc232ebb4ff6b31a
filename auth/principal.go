package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned for every missing, malformed, expired or
// otherwise rejected credential. Callers never learn which check failed.
var ErrUnauthenticated = errors.New("auth: unauthenticated")

// Principal is the identity derived from a verified token for one request.
type Principal struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// Valid reports whether p identifies a real user. The zero user id is the
// sentinel produced for a missing or unparsable subject.
func (p Principal) Valid() bool {
	return p.UserID > 0
}

type contextKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// Require returns the valid principal stored in ctx or ErrUnauthenticated.
func Require(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok || !p.Valid() {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}

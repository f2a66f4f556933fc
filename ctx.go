package fintrack

import (
	"context"
)

type contextKey string

const (
	claimsContextKey contextKey = "fintrack:claims"
	userContextKey   contextKey = "fintrack:user"
)

// ClaimsLocalsKey is the router locals key the auth middleware stores
// validated claims under.
const ClaimsLocalsKey = "claims"

// WithClaims returns a context carrying validated token claims
func WithClaims(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves claims stored by the auth middleware
func ClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*TokenClaims)
	return claims, ok
}

// WithUser returns a context carrying the resolved account
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the account stored by the auth middleware
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// Package auth validates inbound credentials against the Oura API and
// mints sessions for authenticated connections.
package auth

import "context"

// contextKey is a private type for context keys.
type contextKey int

const (
	authorizationContextKey contextKey = iota
)

// WithAuthorization stores the raw Authorization header value in the
// context. The full header is carried, not just the token, so the
// authenticator can distinguish a missing header from a malformed one.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationContextKey, header)
}

// GetAuthorization retrieves the raw Authorization header value, or ""
// when none was set.
func GetAuthorization(ctx context.Context) string {
	if v, ok := ctx.Value(authorizationContextKey).(string); ok {
		return v
	}
	return ""
}

// Package http provides HTTP middleware for the MCP server.
package http

import (
	"net/http"

	"github.com/lifewear/mcp-oura/pkg/auth"
)

// AuthHeaderMiddleware copies the Authorization header into the request
// context for the session authenticator. The raw header travels as-is:
// deciding between a missing header, a malformed scheme, and a bad
// credential belongs to the authenticator, not the transport.
func AuthHeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header := r.Header.Get("Authorization"); header != "" {
			r = r.WithContext(auth.WithAuthorization(r.Context(), header))
		}
		next.ServeHTTP(w, r)
	})
}

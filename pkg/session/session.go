// Package session holds the authenticated context bound to one MCP
// connection. A Session is created exactly once per successful
// authentication, lives for the duration of the underlying connection,
// and is never shared across connections.
package session

import (
	"time"

	"github.com/lifewear/mcp-oura/pkg/oura"
)

// Session is one connection's authenticated identity.
type Session struct {
	// ID is the opaque unique identifier minted at authentication time.
	ID string

	// UserEmail is taken from the authenticated profile.
	UserEmail string

	// CreatedAt is when authentication succeeded.
	CreatedAt time.Time

	// Client is the Oura client bound to this session's credential.
	// The credential itself lives only inside the client.
	Client *oura.Client
}

package middleware

import (
	"context"
	"sync"

	"github.com/lifewear/mcp-oura/pkg/auth"
	"github.com/lifewear/mcp-oura/pkg/session"
)

// Gate authenticates each MCP connection on first contact and reuses
// the minted session for every later call on that connection. The
// authentication handshake therefore runs once per connection, not once
// per tool call.
type Gate struct {
	authenticator *auth.Authenticator
	registry      *session.Registry

	// fallback is the Authorization header used when the request
	// context carries none, e.g. on the stdio transport where the
	// credential comes from configuration.
	fallback string

	// mu guards locks; each connection authenticates under its own
	// lock so concurrent first calls mint exactly one session.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGate creates a gate over the given authenticator and registry.
func NewGate(authenticator *auth.Authenticator, registry *session.Registry, fallback string) *Gate {
	return &Gate{
		authenticator: authenticator,
		registry:      registry,
		fallback:      fallback,
		locks:         make(map[string]*sync.Mutex),
	}
}

// Ensure returns the connection's session, authenticating first if the
// connection has none yet. Rejections leave the registry untouched so a
// later request with a valid credential can still succeed.
func (g *Gate) Ensure(ctx context.Context, connID string) (*session.Session, *auth.Rejection) {
	if sess := g.registry.Get(connID); sess != nil {
		return sess, nil
	}

	lock := g.connLock(connID)
	lock.Lock()
	defer lock.Unlock()

	// Another call may have authenticated while we waited.
	if sess := g.registry.Get(connID); sess != nil {
		return sess, nil
	}

	header := auth.GetAuthorization(ctx)
	if header == "" {
		header = g.fallback
	}

	sess, rej := g.authenticator.Authenticate(ctx, header)
	if rej != nil {
		return nil, rej
	}

	g.registry.Put(connID, sess)
	return sess, nil
}

// Release drops the session bound to a connection along with its
// authentication lock.
func (g *Gate) Release(connID string) {
	g.registry.Delete(connID)

	g.mu.Lock()
	delete(g.locks, connID)
	g.mu.Unlock()
}

func (g *Gate) connLock(connID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[connID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[connID] = lock
	}
	return lock
}

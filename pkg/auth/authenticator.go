package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifewear/mcp-oura/pkg/oura"
	"github.com/lifewear/mcp-oura/pkg/session"
	"github.com/lifewear/mcp-oura/pkg/telemetry"
)

// bearerMarker is matched case-insensitively anywhere in the header;
// everything after it is the credential.
const bearerMarker = "bearer "

// Rejection is a typed authentication failure, mapped to a transport
// response only at the boundary.
type Rejection struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	return r.Message
}

var (
	rejectMissingHeader = &Rejection{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	rejectMissingBearer = &Rejection{Status: http.StatusBadRequest, Message: "Missing Bearer Token"}
	rejectUpstream      = &Rejection{Status: http.StatusUnauthorized, Message: "Unauthorized - invalid or expired token"}
)

// Authenticator exchanges a bearer credential for a verified session.
// The identity check is a personal-info fetch against the upstream;
// every upstream failure, whatever its cause, collapses into a single
// Unauthorized rejection so no upstream detail leaks at the auth
// boundary.
type Authenticator struct {
	clientConfig oura.Config
	sink         telemetry.Sink

	// newID is stubbed in tests for deterministic session IDs.
	newID func() string
}

// NewAuthenticator creates an authenticator. Clients it mints use
// clientConfig, so tests can point them at a fake upstream.
func NewAuthenticator(clientConfig oura.Config, sink telemetry.Sink) *Authenticator {
	return &Authenticator{
		clientConfig: clientConfig,
		sink:         sink,
		newID:        uuid.NewString,
	}
}

// Authenticate validates the Authorization header value and returns
// either a freshly minted session or a rejection, never both.
//
// A missing header is a local precondition failure (Unauthorized); a
// header without a bearer scheme is a bad request; anything else is
// checked against the upstream. Exactly one session is minted per
// successful call, and a session_created event is emitted for it.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*session.Session, *Rejection) {
	if authorization == "" {
		return nil, rejectMissingHeader
	}

	idx := strings.Index(strings.ToLower(authorization), bearerMarker)
	if idx < 0 {
		return nil, rejectMissingBearer
	}
	token := strings.TrimSpace(authorization[idx+len(bearerMarker):])

	client := oura.NewClient(token, a.clientConfig)
	info, err := client.GetPersonalInfo(ctx)
	if err != nil {
		return nil, rejectUpstream
	}

	sess := &session.Session{
		ID:        a.newID(),
		UserEmail: info.Email,
		CreatedAt: time.Now(),
		Client:    client,
	}
	a.sink.SessionCreated(ctx, sess.ID, sess.UserEmail)

	return sess, nil
}

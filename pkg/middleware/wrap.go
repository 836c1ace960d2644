// Package middleware provides the tool execution wrapper and the
// connection-level authentication gate for the MCP server.
package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lifewear/mcp-oura/pkg/session"
	"github.com/lifewear/mcp-oura/pkg/telemetry"
)

// ToolFunc is the business logic of one tool: given the connection's
// session and decoded arguments, it returns the serialized JSON payload.
// The session is threaded explicitly; tool bodies never reach into the
// context for identity.
type ToolFunc[A any] func(ctx context.Context, sess *session.Session, args A) (string, error)

// Instrument decorates fn with start/finish telemetry keyed by the
// active session. The wrapped function emits exactly one tool_called
// event before the body runs and exactly one of tool_completed or
// tool_failed after, then passes the body's result and error through
// unchanged. It never swallows or transforms a failure.
func Instrument[A any](sink telemetry.Sink, name string, fn ToolFunc[A]) ToolFunc[A] {
	return func(ctx context.Context, sess *session.Session, args A) (string, error) {
		start := time.Now()
		sink.ToolCalled(ctx, sess.ID, sess.UserEmail, name, toParams(args))

		out, err := fn(ctx, sess, args)
		elapsed := time.Since(start)

		if err != nil {
			sink.ToolFailed(ctx, sess.ID, sess.UserEmail, name, err.Error(), elapsed)
			return out, err
		}

		sink.ToolCompleted(ctx, sess.ID, sess.UserEmail, name, elapsed)
		return out, nil
	}
}

// toParams renders the typed arguments as a generic map for logging.
// Arguments are plain data by construction, so failures only occur for
// types that cannot appear here; they degrade to nil rather than
// blocking the call.
func toParams(args any) map[string]any {
	data, err := json.Marshal(args)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

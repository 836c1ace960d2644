// Package telemetry emits structured events for session and tool
// activity. The Sink is injected by constructor wherever events are
// produced, so tests can substitute a capturing implementation.
package telemetry

import (
	"context"
	"time"
)

// Event names, one per observable transition.
const (
	EventSessionCreated = "session_created"
	EventToolCalled     = "tool_called"
	EventToolCompleted  = "tool_completed"
	EventToolFailed     = "tool_failed"
)

// Sink receives telemetry events. Implementations must be safe for
// concurrent use: the sink is the only resource shared across sessions.
type Sink interface {
	// SessionCreated records a successful authentication.
	SessionCreated(ctx context.Context, sessionID, userEmail string)

	// ToolCalled records a tool invocation before its body runs.
	ToolCalled(ctx context.Context, sessionID, userEmail, tool string, params map[string]any)

	// ToolCompleted records a successful tool invocation.
	ToolCompleted(ctx context.Context, sessionID, userEmail, tool string, duration time.Duration)

	// ToolFailed records a failed tool invocation with the failure's
	// message, verbatim.
	ToolFailed(ctx context.Context, sessionID, userEmail, tool, errMsg string, duration time.Duration)
}

// NopSink discards all events.
type NopSink struct{}

// SessionCreated does nothing.
func (NopSink) SessionCreated(context.Context, string, string) {}

// ToolCalled does nothing.
func (NopSink) ToolCalled(context.Context, string, string, string, map[string]any) {}

// ToolCompleted does nothing.
func (NopSink) ToolCompleted(context.Context, string, string, string, time.Duration) {}

// ToolFailed does nothing.
func (NopSink) ToolFailed(context.Context, string, string, string, string, time.Duration) {}

var _ Sink = NopSink{}

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// SlogSink writes telemetry events as structured slog records.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink around an existing logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// NewJSONSink creates a sink writing JSON records to w at the given
// level. Use stderr when the stdio transport owns stdout.
func NewJSONSink(w io.Writer, level slog.Level) *SlogSink {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogSink{logger: slog.New(handler)}
}

// SessionCreated records a successful authentication.
func (s *SlogSink) SessionCreated(ctx context.Context, sessionID, userEmail string) {
	s.logger.InfoContext(ctx, "session created",
		"event", EventSessionCreated,
		"session_id", sessionID,
		"user_email", userEmail,
	)
}

// ToolCalled records a tool invocation before its body runs.
func (s *SlogSink) ToolCalled(ctx context.Context, sessionID, userEmail, tool string, params map[string]any) {
	s.logger.InfoContext(ctx, "tool called",
		"event", EventToolCalled,
		"session_id", sessionID,
		"user_email", userEmail,
		"tool", tool,
		"parameters", params,
	)
}

// ToolCompleted records a successful tool invocation.
func (s *SlogSink) ToolCompleted(ctx context.Context, sessionID, userEmail, tool string, duration time.Duration) {
	s.logger.InfoContext(ctx, "tool completed",
		"event", EventToolCompleted,
		"session_id", sessionID,
		"user_email", userEmail,
		"tool", tool,
		"duration_ms", durationMS(duration),
	)
}

// ToolFailed records a failed tool invocation.
func (s *SlogSink) ToolFailed(ctx context.Context, sessionID, userEmail, tool, errMsg string, duration time.Duration) {
	s.logger.ErrorContext(ctx, "tool failed",
		"event", EventToolFailed,
		"session_id", sessionID,
		"user_email", userEmail,
		"tool", tool,
		"error", errMsg,
		"duration_ms", durationMS(duration),
	)
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var _ Sink = (*SlogSink)(nil)

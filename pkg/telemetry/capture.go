package telemetry

import (
	"context"
	"sync"
	"time"
)

// CapturedEvent is one event recorded by a CaptureSink.
type CapturedEvent struct {
	Event     string
	SessionID string
	UserEmail string
	Tool      string
	Params    map[string]any
	Error     string
	Duration  time.Duration
}

// CaptureSink records events in memory for assertions in tests.
type CaptureSink struct {
	mu     sync.Mutex
	events []CapturedEvent
}

// NewCaptureSink creates an empty capture sink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

// SessionCreated records the event.
func (c *CaptureSink) SessionCreated(_ context.Context, sessionID, userEmail string) {
	c.append(CapturedEvent{Event: EventSessionCreated, SessionID: sessionID, UserEmail: userEmail})
}

// ToolCalled records the event.
func (c *CaptureSink) ToolCalled(_ context.Context, sessionID, userEmail, tool string, params map[string]any) {
	c.append(CapturedEvent{Event: EventToolCalled, SessionID: sessionID, UserEmail: userEmail, Tool: tool, Params: params})
}

// ToolCompleted records the event.
func (c *CaptureSink) ToolCompleted(_ context.Context, sessionID, userEmail, tool string, duration time.Duration) {
	c.append(CapturedEvent{Event: EventToolCompleted, SessionID: sessionID, UserEmail: userEmail, Tool: tool, Duration: duration})
}

// ToolFailed records the event.
func (c *CaptureSink) ToolFailed(_ context.Context, sessionID, userEmail, tool, errMsg string, duration time.Duration) {
	c.append(CapturedEvent{Event: EventToolFailed, SessionID: sessionID, UserEmail: userEmail, Tool: tool, Error: errMsg, Duration: duration})
}

// Events returns a copy of everything recorded so far.
func (c *CaptureSink) Events() []CapturedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CapturedEvent, len(c.events))
	copy(out, c.events)
	return out
}

// ByEvent returns recorded events matching the given event name.
func (c *CaptureSink) ByEvent(event string) []CapturedEvent {
	var out []CapturedEvent
	for _, e := range c.Events() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (c *CaptureSink) append(e CapturedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

var _ Sink = (*CaptureSink)(nil)

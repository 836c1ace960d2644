// Package health tracks server readiness and serves health check
// endpoints.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Readiness states.
const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// Checker tracks whether the server is accepting MCP traffic. It is
// safe for concurrent use.
type Checker struct {
	state atomic.Int32
}

// NewChecker creates a Checker in the starting state.
func NewChecker() *Checker {
	return &Checker{}
}

// SetReady marks the server ready to accept connections.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining marks the server as shutting down.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// IsReady reports whether the server is accepting connections.
func (c *Checker) IsReady() bool {
	return c.state.Load() == stateReady
}

// State returns the current state as a string.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

// LivenessHandler always responds 200; the process is alive if it can
// answer at all. Mount at /healthz.
func (*Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	}
}

// ReadinessHandler responds 200 when ready and 503 while starting or
// draining. Mount at /readyz.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		code := http.StatusOK
		if !c.IsReady() {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, c.State())
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

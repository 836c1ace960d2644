package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerStateTransitions(t *testing.T) {
	c := NewChecker()

	if c.IsReady() {
		t.Error("new checker should not be ready")
	}
	if got := c.State(); got != "starting" {
		t.Errorf("State() = %q, want starting", got)
	}

	c.SetReady()
	if !c.IsReady() {
		t.Error("IsReady() = false after SetReady")
	}

	c.SetDraining()
	if c.IsReady() {
		t.Error("IsReady() = true after SetDraining")
	}
	if got := c.State(); got != "draining" {
		t.Errorf("State() = %q, want draining", got)
	}
}

func TestLivenessHandler(t *testing.T) {
	c := NewChecker()

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200", rec.Code)
	}
}

func TestReadinessHandler(t *testing.T) {
	c := NewChecker()
	handler := c.ReadinessHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness while starting = %d, want 503", rec.Code)
	}

	c.SetReady()
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readiness when ready = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ready" {
		t.Errorf("status = %q, want ready", body["status"])
	}
}

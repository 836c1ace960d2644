package oura

import (
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status      int
		wantKind    Kind
		wantMessage string
	}{
		{http.StatusBadRequest, KindClientError, "Bad Request"},
		{http.StatusUnauthorized, KindUnauthorized, "Unauthorized - token expired or revoked"},
		{http.StatusForbidden, KindForbidden, "Forbidden - insufficient permissions"},
		{http.StatusUnprocessableEntity, KindValidation, "Validation failed - invalid request body or parameters"},
		{http.StatusTooManyRequests, KindRateLimit, "Rate limit exceeded - too many requests"},
		{http.StatusInternalServerError, KindServerError, "Server error"},
		{http.StatusBadGateway, KindServerError, "Server error"},
		{http.StatusServiceUnavailable, KindServerError, "Server error"},
		{http.StatusNotFound, KindServerError, "Server error"},
		{http.StatusTeapot, KindServerError, "Server error"},
	}

	for _, tt := range tests {
		got := classifyStatus(tt.status, nil)
		if got.Kind != tt.wantKind {
			t.Errorf("classifyStatus(%d).Kind = %q, want %q", tt.status, got.Kind, tt.wantKind)
		}
		if got.Message != tt.wantMessage {
			t.Errorf("classifyStatus(%d).Message = %q, want %q", tt.status, got.Message, tt.wantMessage)
		}
		if got.StatusCode != tt.status {
			t.Errorf("classifyStatus(%d).StatusCode = %d", tt.status, got.StatusCode)
		}
	}
}

func TestClassifyStatusRetainsBody(t *testing.T) {
	body := []byte(`{"detail":"token revoked"}`)
	got := classifyStatus(http.StatusUnauthorized, body)
	if string(got.Body) != string(body) {
		t.Errorf("Body = %q, want %q", got.Body, body)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := classifyStatus(http.StatusTooManyRequests, nil)
	want := "oura: Rate limit exceeded - too many requests (status 429)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

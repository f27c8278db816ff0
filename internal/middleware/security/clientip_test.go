package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractDirectPeer(t *testing.T) {
	e := NewClientIPExtractor()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5123"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	// Untrusted peer, so the forwarding header is ignored.
	if got := e.Extract(req); got != "203.0.113.7" {
		t.Errorf("Extract = %q, want 203.0.113.7", got)
	}
}

func TestExtractBehindTrustedProxy(t *testing.T) {
	e := NewClientIPExtractor()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:8080"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.5")

	if got := e.Extract(req); got != "198.51.100.1" {
		t.Errorf("Extract = %q, want 198.51.100.1", got)
	}
}

func TestExtractFallsBackToRealIP(t *testing.T) {
	e := NewClientIPExtractor()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Real-IP", "198.51.100.9")

	if got := e.Extract(req); got != "198.51.100.9" {
		t.Errorf("Extract = %q, want 198.51.100.9", got)
	}
}

func TestHeadersMiddlewareSetsDefaults(t *testing.T) {
	mw := NewHeadersMiddleware(DefaultHeadersConfig())
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy")
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS on plain HTTP = %q, want unset", got)
	}
}

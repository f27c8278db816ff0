package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseBuilderDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().Body(map[string]int{"n": 1}).Write(rec)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["n"] != 1 {
		t.Fatalf("body = %v", body)
	}
}

func TestResponseBuilderNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Write(rec)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestResponseBuilderErrorEnvelope(t *testing.T) {
	cases := []struct {
		name  string
		build func(*ResponseBuilder) *ResponseBuilder
		code  int
		msg   string
	}{
		{"bad request", func(b *ResponseBuilder) *ResponseBuilder { return b.BadRequest("nope") }, 400, "nope"},
		{"not found", func(b *ResponseBuilder) *ResponseBuilder { return b.NotFound("missing") }, 404, "missing"},
		{"conflict", func(b *ResponseBuilder) *ResponseBuilder { return b.Conflict("busy") }, 409, "busy"},
		{"internal", func(b *ResponseBuilder) *ResponseBuilder { return b.Internal() }, 500, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.build(NewResponse()).Write(rec)

			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			var env errorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error != tc.msg {
				t.Fatalf("error = %q, want %q", env.Error, tc.msg)
			}
		})
	}
}

func TestResponseBuilderCustomHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().Header("Retry-After", "60").Status(http.StatusTooManyRequests).Write(rec)

	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("missing Retry-After header")
	}
}

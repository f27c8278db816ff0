package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"ok"}`, false},
		{"empty body", ``, true},
		{"unknown field", `{"name":"ok","extra":1}`, true},
		{"trailing data", `{"name":"ok"}{"name":"again"}`, true},
		{"malformed", `{"name":`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			var dst payload
			err := decodeJSON(req, &dst)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseYearParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/costs?year=2023", nil)
	year, err := parseYearParam(req)
	if err != nil || year != 2023 {
		t.Fatalf("year = %d, err = %v", year, err)
	}

	req = httptest.NewRequest("GET", "/costs", nil)
	year, err = parseYearParam(req)
	if err != nil || year != time.Now().Year() {
		t.Fatalf("default year = %d, err = %v", year, err)
	}

	req = httptest.NewRequest("GET", "/costs?year=abc", nil)
	if _, err := parseYearParam(req); err == nil {
		t.Fatal("expected error for non-numeric year")
	}
}

func TestFormatReais(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{150050, "R$ 1.500,50"},
		{123456789, "R$ 1.234.567,89"},
		{-9900, "-R$ 99,00"},
		{500, "R$ 5,00"},
	}
	for _, tc := range cases {
		if got := formatReais(tc.cents); got != tc.want {
			t.Errorf("formatReais(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  cliente\x00novo  "); got != "clientenovo" {
		t.Errorf("sanitizeInput = %q", got)
	}
	if got := sanitizeInput("linha1\nlinha2"); got != "linha1\nlinha2" {
		t.Errorf("newlines should survive, got %q", got)
	}
}

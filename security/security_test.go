package security

import (
	"net/http"
	"testing"
)

func TestGenerateCSRFToken(t *testing.T) {
	a, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken: %v", err)
	}
	b, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken: %v", err)
	}
	if a == "" || a == b {
		t.Error("tokens must be non-empty and unique")
	}
}

func TestValidateContentType(t *testing.T) {
	for _, ct := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if !ValidateContentType(ct) {
			t.Errorf("%s should be accepted", ct)
		}
	}
	if ValidateContentType("text/html") {
		t.Error("text/html should be rejected")
	}
}

func TestSanitizeHeaders(t *testing.T) {
	in := http.Header{}
	in.Set("Authorization", "Bearer secret")
	in.Set("Cookie", "session=abc")
	in.Set("X-VERIFY", "checksum###1")
	in.Set("Content-Type", "application/json")

	out := SanitizeHeaders(in)
	for _, h := range []string{"Authorization", "Cookie", "X-VERIFY"} {
		if out.Get(h) != "" {
			t.Errorf("%s should be removed", h)
		}
	}
	if out.Get("Content-Type") != "application/json" {
		t.Error("Content-Type should be preserved")
	}
	if in.Get("Authorization") == "" {
		t.Error("original headers must not be mutated")
	}
}

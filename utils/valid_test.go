package utils

import "testing"

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  Guest@Example.COM ")
	if err != nil {
		t.Fatalf("SanitizeEmail: %v", err)
	}
	if got != "guest@example.com" {
		t.Errorf("got %q, want guest@example.com", got)
	}

	invalid := []string{"", "not-an-email", "a@b", "spaces in@mail.com"}
	for _, in := range invalid {
		if _, err := SanitizeEmail(in); err == nil {
			t.Errorf("SanitizeEmail(%q): expected error", in)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Str0ngPass"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}

	weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, in := range weak {
		if err := ValidatePassword(in); err == nil {
			t.Errorf("ValidatePassword(%q): expected error", in)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	got := SanitizeInput("  <script>alert(1)</script>  ")
	if got != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Errorf("got %q", got)
	}
}

func TestGenerateSecureOTP(t *testing.T) {
	otp, err := GenerateSecureOTP(6)
	if err != nil {
		t.Fatalf("GenerateSecureOTP: %v", err)
	}
	if len(otp) != 6 {
		t.Errorf("length = %d, want 6", len(otp))
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			t.Errorf("non-digit %q in OTP %q", r, otp)
		}
	}
}

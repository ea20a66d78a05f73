package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TusharRokade31/dharamshala_backend/models"
)

func newTestService(t *testing.T) *PhonePeService {
	t.Helper()
	t.Setenv("PHONEPE_MERCHANT_ID", "MERCHANTTEST")
	t.Setenv("PHONEPE_SALT_KEY", "test-salt-key")
	t.Setenv("PHONEPE_SALT_INDEX", "1")
	svc, err := NewPhonePeService()
	if err != nil {
		t.Fatalf("NewPhonePeService: %v", err)
	}
	return svc
}

func TestNewPhonePeServiceMissingCredentials(t *testing.T) {
	t.Setenv("PHONEPE_MERCHANT_ID", "")
	t.Setenv("PHONEPE_SALT_KEY", "")
	if _, err := NewPhonePeService(); err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
}

func TestChecksumFormat(t *testing.T) {
	svc := newTestService(t)

	got := svc.checksum("payload")
	sum := sha256.Sum256([]byte("payload" + "test-salt-key"))
	want := hex.EncodeToString(sum[:]) + "###1"
	if got != want {
		t.Errorf("checksum = %q, want %q", got, want)
	}
}

func TestVerifyWebhook(t *testing.T) {
	svc := newTestService(t)

	payload := models.PhonePeWebhookPayload{
		Success: true,
		Code:    models.PhonePeCodeSuccess,
	}
	payload.Data.MerchantTransactionID = "MT123"
	payload.Data.State = "COMPLETED"

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	checksum := svc.checksum(encoded)

	decoded, err := svc.VerifyWebhook(encoded, checksum)
	if err != nil {
		t.Fatalf("VerifyWebhook with valid checksum: %v", err)
	}
	if decoded.Data.MerchantTransactionID != "MT123" {
		t.Errorf("merchantTransactionId = %q, want MT123", decoded.Data.MerchantTransactionID)
	}

	// Flip one byte of the header checksum
	mutated := []byte(checksum)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	if _, err := svc.VerifyWebhook(encoded, string(mutated)); err != ErrSignatureMismatch {
		t.Errorf("VerifyWebhook with mutated checksum: got %v, want ErrSignatureMismatch", err)
	}

	// Flip one byte of the payload
	mutatedPayload := []byte(encoded)
	if mutatedPayload[0] == 'A' {
		mutatedPayload[0] = 'B'
	} else {
		mutatedPayload[0] = 'A'
	}
	if _, err := svc.VerifyWebhook(string(mutatedPayload), checksum); err != ErrSignatureMismatch {
		t.Errorf("VerifyWebhook with mutated payload: got %v, want ErrSignatureMismatch", err)
	}
}

func TestMapGatewayCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{models.PhonePeCodeSuccess, PaymentStateSuccess},
		{models.PhonePeCodePending, PaymentStatePending},
		{models.PhonePeCodeError, PaymentStateFailed},
		{"INTERNAL_SERVER_ERROR", PaymentStateFailed},
		{"", PaymentStateFailed},
	}
	for _, tt := range tests {
		if got := MapGatewayCode(tt.code); got != tt.want {
			t.Errorf("MapGatewayCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestInitiatePayment(t *testing.T) {
	svc := newTestService(t)

	var gotVerify string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/pg/v1/pay") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotVerify = r.Header.Get("X-VERIFY")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(models.PhonePeResponse{
			Success: true,
			Code:    models.PhonePeCodeSuccess,
			Data: map[string]interface{}{
				"instrumentResponse": map[string]interface{}{
					"redirectInfo": map[string]interface{}{
						"url": "https://pay.example.com/txn",
					},
				},
			},
		})
	}))
	defer server.Close()
	svc.baseURL = server.URL

	payload := models.PhonePePayPayload{
		MerchantID:            svc.MerchantID(),
		MerchantTransactionID: "MT456",
		Amount:                120000,
	}
	url, err := svc.InitiatePayment(context.Background(), payload)
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if url != "https://pay.example.com/txn" {
		t.Errorf("redirect url = %q", url)
	}

	// X-VERIFY must be the checksum over the base64 body the server received
	if gotBody["request"] == "" {
		t.Fatal("request body missing base64 payload")
	}
	if want := svc.checksum(gotBody["request"]); gotVerify != want {
		t.Errorf("X-VERIFY = %q, want %q", gotVerify, want)
	}
}

func TestCheckStatus(t *testing.T) {
	svc := newTestService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/pg/v1/status/MERCHANTTEST/MT789"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		if want := svc.checksum(wantPath); r.Header.Get("X-VERIFY") != want {
			t.Errorf("X-VERIFY = %q, want %q", r.Header.Get("X-VERIFY"), want)
		}
		if r.Header.Get("X-MERCHANT-ID") != "MERCHANTTEST" {
			t.Errorf("X-MERCHANT-ID = %q", r.Header.Get("X-MERCHANT-ID"))
		}

		json.NewEncoder(w).Encode(models.PhonePeResponse{
			Success: false,
			Code:    models.PhonePeCodePending,
			Message: "Transaction in progress",
		})
	}))
	defer server.Close()
	svc.baseURL = server.URL

	state, code, err := svc.CheckStatus(context.Background(), "MT789")
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if state != PaymentStatePending {
		t.Errorf("state = %q, want PENDING", state)
	}
	if code != models.PhonePeCodePending {
		t.Errorf("code = %q", code)
	}
}

// A definitive failure from the gateway is an answer, not an error: the
// caller needs FAILED back so it can settle the payment and release the
// booking.
func TestCheckStatusFailedPayment(t *testing.T) {
	svc := newTestService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PhonePeResponse{
			Success: false,
			Code:    models.PhonePeCodeError,
			Message: "Payment failed",
		})
	}))
	defer server.Close()
	svc.baseURL = server.URL

	state, code, err := svc.CheckStatus(context.Background(), "MT790")
	if err != nil {
		t.Fatalf("CheckStatus on failed payment: %v", err)
	}
	if state != PaymentStateFailed {
		t.Errorf("state = %q, want FAILED", state)
	}
	if code != models.PhonePeCodeError {
		t.Errorf("code = %q, want %q", code, models.PhonePeCodeError)
	}
}

func TestInitiatePaymentGatewayError(t *testing.T) {
	svc := newTestService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PhonePeResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Message: "Invalid merchant",
		})
	}))
	defer server.Close()
	svc.baseURL = server.URL

	if _, err := svc.InitiatePayment(context.Background(), models.PhonePePayPayload{}); err == nil {
		t.Fatal("expected error for unsuccessful pay response")
	}
}

package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/TusharRokade31/dharamshala_backend/models"
)

// Gateway-agnostic payment states returned by CheckStatus
const (
	PaymentStateSuccess = "SUCCESS"
	PaymentStatePending = "PENDING"
	PaymentStateFailed  = "FAILED"
)

const (
	sandboxBaseURL    = "https://api-preprod.phonepe.com/apis/pg-sandbox"
	productionBaseURL = "https://api.phonepe.com/apis/hermes"
)

// ErrSignatureMismatch is returned when a webhook X-VERIFY header does not
// match the recomputed checksum. The payload must not be processed.
var ErrSignatureMismatch = errors.New("webhook signature mismatch")

// PhonePeService handles interactions with the PhonePe payment gateway
type PhonePeService struct {
	baseURL    string
	merchantID string
	saltKey    string
	saltIndex  string
	client     *http.Client
}

// NewPhonePeService creates a new PhonePe service instance. Credentials come
// from the environment only; there are no in-source fallbacks, and missing
// credentials are an error rather than a warning.
func NewPhonePeService() (*PhonePeService, error) {
	env := os.Getenv("PHONEPE_ENV")

	baseURL := sandboxBaseURL
	if env == "production" {
		baseURL = productionBaseURL
	}

	merchantID := os.Getenv("PHONEPE_MERCHANT_ID")
	saltKey := os.Getenv("PHONEPE_SALT_KEY")
	saltIndex := os.Getenv("PHONEPE_SALT_INDEX")
	if saltIndex == "" {
		saltIndex = "1"
	}

	if merchantID == "" || saltKey == "" {
		return nil, errors.New("missing PhonePe credentials: set PHONEPE_MERCHANT_ID and PHONEPE_SALT_KEY environment variables")
	}

	log.Printf("PhonePe Service Configuration:")
	log.Printf("  Environment: %s", map[bool]string{true: "production", false: "sandbox"}[env == "production"])
	log.Printf("  Base URL: %s", baseURL)
	log.Printf("  Merchant ID: %s", merchantID)
	log.Printf("  Salt Key: [CONFIGURED], index %s", saltIndex)

	return &PhonePeService{
		baseURL:    baseURL,
		merchantID: merchantID,
		saltKey:    saltKey,
		saltIndex:  saltIndex,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// MerchantID exposes the configured merchant id for payload construction
func (s *PhonePeService) MerchantID() string {
	return s.merchantID
}

// checksum returns hex(SHA256(data + saltKey)) + "###" + saltIndex, the
// X-VERIFY header format the gateway expects
func (s *PhonePeService) checksum(data string) string {
	sum := sha256.Sum256([]byte(data + s.saltKey))
	return hex.EncodeToString(sum[:]) + "###" + s.saltIndex
}

// InitiatePayment signs and posts the pay request, returning the gateway
// page the client should be redirected to
func (s *PhonePeService) InitiatePayment(ctx context.Context, payload models.PhonePePayPayload) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pay payload: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(jsonData)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/pg/v1/pay", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", s.checksum(encoded))

	resp, err := s.doRequest(req)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("gateway error: %s - %s", resp.Code, resp.Message)
	}

	// Extract the redirect URL from data.instrumentResponse.redirectInfo.url
	if instrument, ok := resp.Data["instrumentResponse"].(map[string]interface{}); ok {
		if redirectInfo, ok := instrument["redirectInfo"].(map[string]interface{}); ok {
			if url, ok := redirectInfo["url"].(string); ok && url != "" {
				return url, nil
			}
		}
	}

	return "", fmt.Errorf("failed to parse redirect URL from gateway response")
}

// VerifyWebhook recomputes the checksum over the base64 payload and compares
// it byte-for-byte against the X-VERIFY header. Only on a match is the
// payload decoded and returned.
func (s *PhonePeService) VerifyWebhook(base64Payload, headerChecksum string) (*models.PhonePeWebhookPayload, error) {
	expected := s.checksum(base64Payload)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(headerChecksum)) != 1 {
		return nil, ErrSignatureMismatch
	}

	decoded, err := base64.StdEncoding.DecodeString(base64Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	var payload models.PhonePeWebhookPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	return &payload, nil
}

// CheckStatus queries the gateway for a transaction and maps its response
// code to SUCCESS, PENDING or FAILED
func (s *PhonePeService) CheckStatus(ctx context.Context, merchantTransactionID string) (string, string, error) {
	path := fmt.Sprintf("/pg/v1/status/%s/%s", s.merchantID, merchantTransactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", s.checksum(path))
	req.Header.Set("X-MERCHANT-ID", s.merchantID)

	resp, err := s.doRequest(req)
	if err != nil {
		return "", "", err
	}

	return MapGatewayCode(resp.Code), resp.Code, nil
}

// doRequest executes a signed gateway request and parses the response
// envelope. A parsed envelope is returned even when success=false: a
// definitive PAYMENT_ERROR is an answer, not a transport failure, and the
// caller decides what its code means.
func (s *PhonePeService) doRequest(req *http.Request) (*models.PhonePeResponse, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if os.Getenv("PHONEPE_DEBUG") == "true" {
		log.Printf("PhonePe API response: %s", string(respBody))
	}

	var gatewayResp models.PhonePeResponse
	if err := json.Unmarshal(respBody, &gatewayResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	return &gatewayResp, nil
}

// MapGatewayCode maps a PhonePe response code onto the three payment states
func MapGatewayCode(code string) string {
	switch code {
	case models.PhonePeCodeSuccess:
		return PaymentStateSuccess
	case models.PhonePeCodePending:
		return PaymentStatePending
	default:
		return PaymentStateFailed
	}
}

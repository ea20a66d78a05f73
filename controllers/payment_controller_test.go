package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newWebhookRequest(t *testing.T, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/phonepe/webhook",
		strings.NewReader(`{"response":"eyJ9"}`))
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleWebhookRejectsUnsupportedContentType(t *testing.T) {
	pc := &PaymentController{}

	c, rec := newWebhookRequest(t, "text/plain")
	if err := pc.HandleWebhook(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected %d for text/plain, got %d", http.StatusUnsupportedMediaType, rec.Code)
	}
}

func TestHandleWebhookAcceptsContentTypeWithCharset(t *testing.T) {
	pc := &PaymentController{}

	// Charset parameters must not trip the content-type gate; the request
	// should fall through to the X-VERIFY check instead.
	c, rec := newWebhookRequest(t, "application/json; charset=utf-8")
	if err := pc.HandleWebhook(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected %d for missing X-VERIFY, got %d", http.StatusUnauthorized, rec.Code)
	}
}

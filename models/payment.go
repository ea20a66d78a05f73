package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values. A payment becomes terminal on success or failure
// and must never transition twice.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// PhonePe gateway response codes
const (
	PhonePeCodeSuccess = "PAYMENT_SUCCESS"
	PhonePeCodePending = "PAYMENT_PENDING"
	PhonePeCodeError   = "PAYMENT_ERROR"
)

// AmountToPaise converts a rupee amount to whole paise. Rounded, not
// truncated: 19.99*100 is 1998.99... in float64 and must become 1999.
func AmountToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Payment model
type Payment struct {
	ID                    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MerchantTransactionID string             `json:"merchantTransactionId" bson:"merchantTransactionId"`
	BookingID             primitive.ObjectID `json:"bookingId" bson:"bookingId"`
	UserID                primitive.ObjectID `json:"userId" bson:"userId"`
	Amount                int64              `json:"amount" bson:"amount"` // paise
	Status                string             `json:"status" bson:"status"`
	ResponseCode          string             `json:"responseCode,omitempty" bson:"responseCode,omitempty"`
	RedirectURL           string             `json:"redirectUrl,omitempty" bson:"redirectUrl,omitempty"`
	CreatedAt             time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PhonePePayPayload is the JSON document that gets base64-encoded and signed
// for the gateway's pay endpoint
type PhonePePayPayload struct {
	MerchantID            string `json:"merchantId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	MerchantUserID        string `json:"merchantUserId"`
	Amount                int64  `json:"amount"`
	RedirectURL           string `json:"redirectUrl"`
	RedirectMode          string `json:"redirectMode"`
	CallbackURL           string `json:"callbackUrl"`
	PaymentInstrument     struct {
		Type string `json:"type"`
	} `json:"paymentInstrument"`
}

// PhonePeResponse represents the standard response structure from the
// PhonePe API
type PhonePeResponse struct {
	Success bool                   `json:"success"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// PhonePeWebhookBody is the inbound webhook envelope; Response holds the
// base64-encoded payload authenticated by the X-VERIFY header
type PhonePeWebhookBody struct {
	Response string `json:"response"`
}

// PhonePeWebhookPayload is the decoded webhook payload
type PhonePeWebhookPayload struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantID            string `json:"merchantId"`
		MerchantTransactionID string `json:"merchantTransactionId"`
		TransactionID         string `json:"transactionId"`
		Amount                int64  `json:"amount"`
		State                 string `json:"state"`
		ResponseCode          string `json:"responseCode"`
	} `json:"data"`
}

// PaymentInitResponse is returned to the client after initiating a payment
type PaymentInitResponse struct {
	MerchantTransactionID string `json:"merchantTransactionId"`
	RedirectURL           string `json:"redirectUrl"`
}

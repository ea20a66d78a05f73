package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository owns the payments collection
type PaymentRepository struct {
	payments *mongo.Collection
}

func NewPaymentRepository(client *mongo.Client) *PaymentRepository {
	return &PaymentRepository{
		payments: config.GetCollection(client, "payments"),
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	_, err := r.payments.InsertOne(ctx, payment)
	return err
}

func (r *PaymentRepository) FindByMerchantTransactionID(ctx context.Context, merchantTransactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.payments.FindOne(ctx, bson.M{"merchantTransactionId": merchantTransactionID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// MarkTerminal moves a pending payment to success or failed. The update is
// conditional on the payment still being pending, so a webhook and a status
// poll racing each other settle the payment exactly once. The returned bool
// reports whether this call performed the transition; when false, the
// payment was already terminal and is returned unchanged.
func (r *PaymentRepository) MarkTerminal(ctx context.Context, merchantTransactionID, status, responseCode string) (*models.Payment, bool, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var payment models.Payment
	err := r.payments.FindOneAndUpdate(ctx,
		bson.M{
			"merchantTransactionId": merchantTransactionID,
			"status":                models.PaymentStatusPending,
		},
		bson.M{"$set": bson.M{
			"status":       status,
			"responseCode": responseCode,
			"updatedAt":    time.Now(),
		}},
		opts,
	).Decode(&payment)

	if err == nil {
		return &payment, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	// Either the payment does not exist or it is already terminal
	existing, err := r.FindByMerchantTransactionID(ctx, merchantTransactionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

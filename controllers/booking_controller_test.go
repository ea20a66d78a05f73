package controllers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TusharRokade31/dharamshala_backend/models"
)

func TestRoomConflictFilter(t *testing.T) {
	roomID := primitive.NewObjectID()
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	filter := roomConflictFilter(roomID, checkIn, checkOut, primitive.NilObjectID)

	if filter["roomId"] != roomID {
		t.Errorf("expected roomId %s, got %v", roomID.Hex(), filter["roomId"])
	}

	statuses, ok := filter["status"].(bson.M)["$in"].([]string)
	if !ok {
		t.Fatalf("expected status $in clause, got %v", filter["status"])
	}
	blocked := map[string]bool{}
	for _, s := range statuses {
		blocked[s] = true
	}
	if !blocked[models.BookingStatusConfirmed] || !blocked[models.BookingStatusPaymentPending] {
		t.Errorf("confirmed and payment_pending bookings must block, got %v", statuses)
	}
	if blocked[models.BookingStatusDraft] {
		t.Error("draft bookings must not block availability")
	}

	if got := filter["checkIn"].(bson.M)["$lt"]; got != checkOut {
		t.Errorf("expected checkIn $lt %v, got %v", checkOut, got)
	}
	if got := filter["checkOut"].(bson.M)["$gt"]; got != checkIn {
		t.Errorf("expected checkOut $gt %v, got %v", checkIn, got)
	}

	if _, present := filter["_id"]; present {
		t.Error("no _id exclusion expected when no booking is excluded")
	}
}

func TestRoomConflictFilterExcludesOwnBooking(t *testing.T) {
	roomID := primitive.NewObjectID()
	own := primitive.NewObjectID()
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	filter := roomConflictFilter(roomID, checkIn, checkOut, own)

	excl, ok := filter["_id"].(bson.M)
	if !ok {
		t.Fatalf("expected _id exclusion clause, got %v", filter["_id"])
	}
	if excl["$ne"] != own {
		t.Errorf("expected _id $ne %s, got %v", own.Hex(), excl["$ne"])
	}
}

package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Define notification types
const (
	NotificationTypeBookingRequest = "booking_request"
	NotificationTypeBookingUpdate  = "booking_update"
	NotificationTypePaymentUpdate  = "payment_update"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of active clients and routes notifications
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.UserID != primitive.NilObjectID {
				h.clients[client.UserID] = client
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// NotifyBookingRequest tells a property owner about a new booking draft
func (h *Hub) NotifyBookingRequest(ownerID primitive.ObjectID, bookingData interface{}) error {
	notification := Notification{
		Type:    NotificationTypeBookingRequest,
		Message: "New booking request received",
		Data:    bookingData,
	}

	return h.SendToUser(ownerID, notification)
}

// NotifyBookingUpdate tells a guest that their booking changed state
func (h *Hub) NotifyBookingUpdate(userID primitive.ObjectID, bookingData interface{}) error {
	notification := Notification{
		Type:    NotificationTypeBookingUpdate,
		Message: "Your booking status has been updated",
		Data:    bookingData,
	}

	return h.SendToUser(userID, notification)
}

// NotifyPaymentUpdate tells a guest the outcome of a payment
func (h *Hub) NotifyPaymentUpdate(userID primitive.ObjectID, paymentData interface{}) error {
	notification := Notification{
		Type:    NotificationTypePaymentUpdate,
		Message: "Payment status updated",
		Data:    paymentData,
	}

	return h.SendToUser(userID, notification)
}

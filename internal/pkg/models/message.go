package models

import "time"

// MaxMessageLength bounds a chat message, counted in runes
const MaxMessageLength = 1000

// RideMessage is one chat line between a ride's passenger and driver
type RideMessage struct {
	ID         string    `json:"id" db:"id"`
	RideID     string    `json:"ride_id" db:"ride_id"`
	SenderID   string    `json:"sender_id" db:"sender_id"`
	SenderRole Role      `json:"sender_role" db:"sender_role"`
	ReceiverID string    `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Involves reports whether userID sent or receives the message
func (m RideMessage) Involves(userID string) bool {
	return userID != "" && (m.SenderID == userID || m.ReceiverID == userID)
}

// SendMessageRequest is the body of POST /rides/:rideID/messages
type SendMessageRequest struct {
	Content string `json:"content"`
}

package model

import "time"

// ContactStatusUnread is the status every contact message starts with.
const ContactStatusUnread = "unread"

// ContactMessage represents a message submitted via the contact form.
type ContactMessage struct {
	ID           string    `json:"id"`
	To           string    `json:"to"`
	CustomerName string    `json:"customerName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Message      string    `json:"message"`
	Status       string    `json:"status"` // "unread" | "read"
	CreatedAt    time.Time `json:"createdAt"`
}

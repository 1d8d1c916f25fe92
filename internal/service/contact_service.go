package service

import (
	"context"

	"github.com/kavacham/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a new contact message and notifies the visitor and the
	// admin. msg.ID, Status and CreatedAt are populated by the implementation.
	Submit(ctx context.Context, msg *model.ContactMessage) (*ContactResult, error)
}

// ContactResult is returned once the message is durably stored.
type ContactResult struct {
	RecordID   string
	Deliveries Deliveries
}

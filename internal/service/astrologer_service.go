package service

import (
	"context"

	"github.com/kavacham/backend/internal/model"
)

// AstrologerService handles astrologer registrations.
type AstrologerService interface {
	// Register stores app as a pending, inactive application and sends the
	// welcome and admin mails when the transport verifies.
	Register(ctx context.Context, app *model.AstrologerApplication) (*AstrologerResult, error)
}

// AstrologerResult is returned once the application is durably stored.
type AstrologerResult struct {
	RecordID   string
	EmailSent  bool
	Deliveries Deliveries
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/metrics"
	"github.com/kavacham/backend/internal/model"
	"github.com/kavacham/backend/internal/repository"
)

const kindContact = "contact"

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.ContactRepository
	notifier *Notifier
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository, notifier *Notifier) ContactService {
	return &contactServiceImpl{repo: repo, notifier: notifier}
}

// Submit checks the mail configuration, stores msg with status "unread" and
// then sends the confirmation and admin mails in parallel. Mail failures are
// logged and do not affect the result.
func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.ContactMessage) (*ContactResult, error) {
	if err := s.notifier.Ready(); err != nil {
		metrics.RecordSubmission(kindContact, "misconfigured")
		return nil, err
	}

	msg.Status = model.ContactStatusUnread
	msg.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, msg); err != nil {
		metrics.RecordSubmission(kindContact, "store_error")
		return nil, &StoreError{Op: "create contact", Err: err}
	}
	metrics.RecordSubmission(kindContact, "created")
	slog.Info("contact message stored", "record_id", msg.ID)

	data := mail.ContactData{
		RecordID:     msg.ID,
		CustomerName: msg.CustomerName,
		Email:        msg.Email,
		Phone:        msg.Phone,
		Message:      msg.Message,
		Year:         s.notifier.year(),
	}
	deliveries := s.notifier.dispatch(ctx, msg.ID,
		envelope{
			kind:     mail.KindContactConfirmation,
			to:       msg.To,
			fromName: s.notifier.from("Support"),
			replyTo:  s.notifier.cfg.AdminEmail,
			data:     data,
		},
		envelope{
			kind:     mail.KindContactAdmin,
			to:       s.notifier.cfg.AdminEmail,
			fromName: s.notifier.from("Website"),
			replyTo:  msg.Email,
			data:     data,
		},
	)

	return &ContactResult{RecordID: msg.ID, Deliveries: deliveries}, nil
}

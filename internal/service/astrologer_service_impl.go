package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/metrics"
	"github.com/kavacham/backend/internal/model"
	"github.com/kavacham/backend/internal/repository"
)

const kindAstrologer = "astrologer"

type astrologerServiceImpl struct {
	repo     repository.AstrologerRepository
	notifier *Notifier
}

// NewAstrologerService creates an AstrologerService backed by the given repository.
func NewAstrologerService(repo repository.AstrologerRepository, notifier *Notifier) AstrologerService {
	return &astrologerServiceImpl{repo: repo, notifier: notifier}
}

func (s *astrologerServiceImpl) Register(ctx context.Context, app *model.AstrologerApplication) (*AstrologerResult, error) {
	if err := s.notifier.Ready(); err != nil {
		metrics.RecordSubmission(kindAstrologer, "misconfigured")
		return nil, err
	}

	app.Email = strings.ToLower(strings.TrimSpace(app.Email))
	if app.Languages == nil {
		app.Languages = []string{}
	}
	if app.Services == nil {
		app.Services = []string{}
	}
	app.Status = model.AstrologerStatusPending
	app.IsActive = false
	app.SubmittedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, app); err != nil {
		metrics.RecordSubmission(kindAstrologer, "store_error")
		return nil, &StoreError{Op: "create astrologer application", Err: err}
	}
	metrics.RecordSubmission(kindAstrologer, "created")
	slog.Info("astrologer application stored", "record_id", app.ID)

	result := &AstrologerResult{RecordID: app.ID}

	// The record is stored; a client disconnect must not cancel the mails.
	ctx = context.WithoutCancel(ctx)
	if err := s.notifier.Verify(ctx); err != nil {
		s.notifier.skip(app.ID, err, mail.KindAstrologerWelcome, mail.KindAstrologerAdmin)
		return result, nil
	}

	data := mail.AstrologerData{
		RecordID:       app.ID,
		Name:           app.Name,
		Email:          app.Email,
		Phone:          app.Phone,
		DateOfBirth:    app.DateOfBirth,
		Gender:         app.Gender,
		Experience:     app.Experience,
		Specialization: app.Specialization,
		Languages:      app.Languages,
		Services:       app.Services,
		About:          app.About,
		Year:           s.notifier.year(),
	}
	result.Deliveries = s.notifier.dispatch(ctx, app.ID,
		envelope{
			kind:     mail.KindAstrologerWelcome,
			to:       app.Email,
			fromName: s.notifier.from("Team"),
			replyTo:  s.notifier.cfg.AdminEmail,
			data:     data,
		},
		envelope{
			kind:     mail.KindAstrologerAdmin,
			to:       s.notifier.cfg.AdminEmail,
			fromName: s.notifier.from("Registrations"),
			replyTo:  app.Email,
			data:     data,
		},
	)
	result.EmailSent = result.Deliveries.AllSent()
	return result, nil
}

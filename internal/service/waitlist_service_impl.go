package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/metrics"
	"github.com/kavacham/backend/internal/model"
	"github.com/kavacham/backend/internal/repository"
)

const kindWaitlist = "waitlist"

type waitlistServiceImpl struct {
	repo     repository.WaitlistRepository
	notifier *Notifier
	locker   JoinLocker
}

// NewWaitlistService creates a WaitlistService. locker may be nil, in which
// case the store's unique email index is the only duplicate guard.
func NewWaitlistService(repo repository.WaitlistRepository, notifier *Notifier, locker JoinLocker) WaitlistService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &waitlistServiceImpl{repo: repo, notifier: notifier, locker: locker}
}

func (s *waitlistServiceImpl) Join(ctx context.Context, email string) (*WaitlistResult, error) {
	if err := s.notifier.Ready(); err != nil {
		metrics.RecordSubmission(kindWaitlist, "misconfigured")
		return nil, err
	}
	email = strings.TrimSpace(email)

	// A held lock only means another join is in flight; it may still fail,
	// so the lookup and the unique index decide.
	release, acquired := s.locker.Acquire(ctx, email)
	if acquired {
		defer release()
	} else {
		slog.Debug("waitlist join lock held, relying on unique index")
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		metrics.RecordSubmission(kindWaitlist, "duplicate")
		return &WaitlistResult{AlreadyExists: true}, nil
	case !errors.Is(err, repository.ErrNotFound):
		metrics.RecordSubmission(kindWaitlist, "store_error")
		return nil, &StoreError{Op: "find waitlist entry", Err: err}
	}

	entry := &model.WaitlistEntry{
		Email:    email,
		Status:   model.WaitlistStatusActive,
		Notified: false,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordSubmission(kindWaitlist, "duplicate")
			return &WaitlistResult{AlreadyExists: true}, nil
		}
		metrics.RecordSubmission(kindWaitlist, "store_error")
		return nil, &StoreError{Op: "create waitlist entry", Err: err}
	}
	metrics.RecordSubmission(kindWaitlist, "created")
	slog.Info("waitlist entry stored", "record_id", entry.ID)

	data := mail.WaitlistData{
		RecordID: entry.ID,
		Email:    entry.Email,
		JoinedAt: entry.JoinedAt,
		Year:     s.notifier.year(),
	}
	deliveries := s.notifier.dispatch(ctx, entry.ID,
		envelope{
			kind:     mail.KindWaitlistWelcome,
			to:       entry.Email,
			fromName: s.notifier.from("Cosmic Connection"),
			data:     data,
		},
		envelope{
			kind:     mail.KindWaitlistAdmin,
			to:       s.notifier.cfg.AdminEmail,
			fromName: s.notifier.from("Waitlist"),
			data:     data,
		},
	)

	return &WaitlistResult{Entry: entry, Deliveries: deliveries}, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(), bool) {
	return func() {}, true
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/model"
)

func newApplication() *model.AstrologerApplication {
	return &model.AstrologerApplication{
		Name:           "Ravi Sharma",
		Email:          "  Ravi@Example.COM ",
		Phone:          "9876543210",
		Experience:     7,
		Specialization: "Vedic Astrology",
		Languages:      []string{"Hindi", "English"},
		Services:       []string{"Kundli Matching"},
	}
}

func TestAstrologerService_Register_Success(t *testing.T) {
	repo := &mockAstrologerRepository{}
	sender := &mockSender{}
	svc := NewAstrologerService(repo, newTestNotifier(t, sender))

	res, err := svc.Register(context.Background(), newApplication())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.RecordID != "astro-1" || !res.EmailSent {
		t.Errorf("unexpected result %+v", res)
	}

	stored := repo.created[0]
	if stored.Email != "ravi@example.com" {
		t.Errorf("expected normalized email, got %q", stored.Email)
	}
	if stored.Status != "pending" || stored.IsActive {
		t.Errorf("expected pending/inactive, got %q/%v", stored.Status, stored.IsActive)
	}
	if stored.SubmittedAt.IsZero() {
		t.Error("expected SubmittedAt to be set")
	}
	welcome := sender.find(mail.KindAstrologerWelcome)
	if welcome == nil || welcome.To != "ravi@example.com" {
		t.Errorf("expected welcome mail to applicant, got %+v", welcome)
	}
	if sender.find(mail.KindAstrologerAdmin) == nil {
		t.Error("expected admin notification")
	}
}

func TestAstrologerService_Register_NilListsBecomeEmpty(t *testing.T) {
	repo := &mockAstrologerRepository{}
	svc := NewAstrologerService(repo, newTestNotifier(t, &mockSender{}))

	app := newApplication()
	app.Languages = nil
	app.Services = nil
	if _, err := svc.Register(context.Background(), app); err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored := repo.created[0]
	if stored.Languages == nil || stored.Services == nil {
		t.Errorf("expected non-nil lists, got %#v / %#v", stored.Languages, stored.Services)
	}
}

func TestAstrologerService_Register_VerifyFailureSkipsMail(t *testing.T) {
	repo := &mockAstrologerRepository{}
	sender := &mockSender{
		verifyFunc: func(ctx context.Context) error { return errSMTPDown },
	}
	svc := NewAstrologerService(repo, newTestNotifier(t, sender))

	res, err := svc.Register(context.Background(), newApplication())
	if err != nil {
		t.Fatalf("expected success when transport verification fails, got %v", err)
	}
	if res.EmailSent {
		t.Error("expected emailSent=false")
	}
	if res.RecordID == "" {
		t.Error("expected record id")
	}
	if len(sender.messages()) != 0 {
		t.Errorf("expected no send attempts, got %d", len(sender.messages()))
	}
}

func TestAstrologerService_Register_PartialMailFailure(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg *mail.Message) error {
			if msg.Kind == mail.KindAstrologerAdmin {
				return errSMTPDown
			}
			return nil
		},
	}
	svc := NewAstrologerService(&mockAstrologerRepository{}, newTestNotifier(t, sender))

	res, err := svc.Register(context.Background(), newApplication())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.EmailSent {
		t.Error("expected emailSent=false when one mail failed")
	}
}

func TestAstrologerService_Register_StoreError(t *testing.T) {
	repo := &mockAstrologerRepository{createErr: errors.New("insert failed")}
	sender := &mockSender{}
	svc := NewAstrologerService(repo, newTestNotifier(t, sender))

	_, err := svc.Register(context.Background(), newApplication())
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if len(sender.messages()) != 0 {
		t.Error("expected no mail after failed write")
	}
}

func TestAstrologerService_Register_MissingConfig(t *testing.T) {
	repo := &mockAstrologerRepository{}
	svc := NewAstrologerService(repo, newTestNotifier(t, &mockSender{}, "EMAIL_PASS"))

	_, err := svc.Register(context.Background(), newApplication())
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Error("expected no write on configuration error")
	}
}

func TestAstrologerService_Register_MailsSurviveCancelledContext(t *testing.T) {
	sender := &mockSender{
		verifyFunc: func(ctx context.Context) error { return ctx.Err() },
		sendFunc:   func(ctx context.Context, msg *mail.Message) error { return ctx.Err() },
	}
	ctx, cancel := context.WithCancel(context.Background())
	repo := &mockAstrologerRepository{onCreate: cancel} // client goes away right after the write
	svc := NewAstrologerService(repo, newTestNotifier(t, sender))

	res, err := svc.Register(ctx, newApplication())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.RecordID != "astro-1" {
		t.Errorf("expected record id, got %q", res.RecordID)
	}
	if !res.EmailSent {
		t.Errorf("expected mails to be sent with a detached context, got %+v", res.Deliveries)
	}
	if len(sender.messages()) != 2 {
		t.Errorf("expected 2 sends, got %d", len(sender.messages()))
	}
}

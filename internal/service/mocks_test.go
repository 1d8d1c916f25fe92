package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/model"
	"github.com/kavacham/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// mockSender records messages and is safe for the parallel dispatch
// ---------------------------------------------------------------------------

type mockSender struct {
	mu         sync.Mutex
	sent       []*mail.Message
	sendFunc   func(ctx context.Context, msg *mail.Message) error
	verifyFunc func(ctx context.Context) error
}

func (m *mockSender) Send(ctx context.Context, msg *mail.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func (m *mockSender) Verify(ctx context.Context) error {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx)
	}
	return nil
}

func (m *mockSender) messages() []*mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mail.Message(nil), m.sent...)
}

func (m *mockSender) find(kind mail.Kind) *mail.Message {
	for _, msg := range m.messages() {
		if msg.Kind == kind {
			return msg
		}
	}
	return nil
}

var errSMTPDown = errors.New("dial tcp: connection refused")

func newTestNotifier(t *testing.T, sender mail.Sender, missing ...string) *Notifier {
	t.Helper()
	r, err := mail.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return NewNotifier(r, sender, NotifierConfig{AdminEmail: "admin@kavacham.in", Missing: missing})
}

// ---------------------------------------------------------------------------
// repositories
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	createFunc func(ctx context.Context, msg *model.ContactMessage) error
	created    []*model.ContactMessage
}

func (m *mockContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, msg); err != nil {
			return err
		}
	}
	if msg.ID == "" {
		msg.ID = "contact-1"
	}
	m.created = append(m.created, msg)
	return nil
}

type mockAstrologerRepository struct {
	createErr error
	// onCreate, when set, runs before the insert is recorded.
	onCreate func()
	created  []*model.AstrologerApplication
}

func (m *mockAstrologerRepository) Create(ctx context.Context, app *model.AstrologerApplication) error {
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.createErr != nil {
		return m.createErr
	}
	app.ID = "astro-1"
	m.created = append(m.created, app)
	return nil
}

// memWaitlistRepo is an in-memory WaitlistRepository enforcing unique emails.
type memWaitlistRepo struct {
	mu      sync.Mutex
	entries []*model.WaitlistEntry
	findErr error
	// createErr, when set, is returned by Create instead of inserting.
	createErr error
	creates   int
}

func (r *memWaitlistRepo) FindByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, e := range r.entries {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memWaitlistRepo) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	for _, e := range r.entries {
		if e.Email == entry.Email {
			return repository.ErrDuplicate
		}
	}
	entry.ID = "wait-" + entry.Email
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memWaitlistRepo) count(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Email == email {
			n++
		}
	}
	return n
}

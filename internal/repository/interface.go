package repository

import (
	"context"

	"github.com/kavacham/backend/internal/model"
)

// Collection (MongoDB) and table (PostgreSQL) names.
const (
	ContactsCollection    = "contacts"
	AstrologersCollection = "astrologers"
	WaitlistCollection    = "waitlist"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	// Create inserts msg and populates msg.ID.
	Create(ctx context.Context, msg *model.ContactMessage) error
}

// AstrologerRepository persists astrologer applications.
type AstrologerRepository interface {
	// Create inserts app and populates app.ID.
	Create(ctx context.Context, app *model.AstrologerApplication) error
}

// WaitlistRepository persists waitlist signups.
type WaitlistRepository interface {
	// FindByEmail returns the entry for the exact email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error)
	// Create inserts entry and populates entry.ID. It returns ErrDuplicate
	// when an entry with the same email already exists.
	Create(ctx context.Context, entry *model.WaitlistEntry) error
}

// Store bundles the repositories of one backend together with its
// liveness check and shutdown hook.
type Store struct {
	DB          DB
	Contacts    ContactRepository
	Astrologers AstrologerRepository
	Waitlist    WaitlistRepository
	Close       func(ctx context.Context) error
}

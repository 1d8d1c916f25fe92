// Package mail renders and sends the transactional e-mails of the intake
// flows through an SMTP relay.
package mail

import "context"

// Kind identifies a transactional e-mail template.
type Kind string

const (
	KindContactConfirmation Kind = "contact_confirmation"
	KindContactAdmin        Kind = "contact_admin"
	KindAstrologerWelcome   Kind = "astrologer_welcome"
	KindAstrologerAdmin     Kind = "astrologer_admin"
	KindWaitlistWelcome     Kind = "waitlist_welcome"
	KindWaitlistAdmin       Kind = "waitlist_admin"
)

// Message is a rendered e-mail ready to hand to a Sender.
type Message struct {
	Kind     Kind
	FromName string
	To       string
	ReplyTo  string
	Subject  string
	HTML     string
	Text     string
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	// Send delivers a single message.
	Send(ctx context.Context, msg *Message) error
	// Verify checks that the relay accepts a connection and our credentials.
	Verify(ctx context.Context) error
}

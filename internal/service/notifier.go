package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/metrics"
)

// NotifierConfig holds the mail settings the intake services need.
type NotifierConfig struct {
	AdminEmail string
	// Missing lists required mail settings that are unset; a non-empty list
	// makes every intake request fail with ConfigurationError.
	Missing []string
	// BrandName prefixes every sender display name, e.g. "Kavacham".
	BrandName string
}

// Notifier renders and dispatches the e-mails of one submission.
type Notifier struct {
	renderer *mail.Renderer
	sender   mail.Sender
	cfg      NotifierConfig
	now      func() time.Time
}

// NewNotifier creates a Notifier.
func NewNotifier(renderer *mail.Renderer, sender mail.Sender, cfg NotifierConfig) *Notifier {
	if cfg.BrandName == "" {
		cfg.BrandName = "Kavacham"
	}
	return &Notifier{renderer: renderer, sender: sender, cfg: cfg, now: time.Now}
}

// Ready returns a ConfigurationError when required mail settings are missing.
func (n *Notifier) Ready() error {
	if len(n.cfg.Missing) > 0 {
		return &ConfigurationError{Missing: n.cfg.Missing}
	}
	return nil
}

// Verify checks the mail transport.
func (n *Notifier) Verify(ctx context.Context) error {
	return n.sender.Verify(ctx)
}

// Delivery is the outcome of sending one e-mail.
type Delivery struct {
	Kind mail.Kind
	To   string
	Err  error
}

// Deliveries is the result of a dispatch. Services inspect it and then
// discard it: mail failures never fail a request whose record is stored.
type Deliveries []Delivery

// AllSent reports whether at least one mail was attempted and none failed.
func (d Deliveries) AllSent() bool {
	if len(d) == 0 {
		return false
	}
	for _, x := range d {
		if x.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the failed deliveries as MailErrors.
func (d Deliveries) Failed() []*MailError {
	var out []*MailError
	for _, x := range d {
		if x.Err != nil {
			out = append(out, &MailError{Kind: x.Kind, To: x.To, Err: x.Err})
		}
	}
	return out
}

// envelope is one e-mail to render and send.
type envelope struct {
	kind     mail.Kind
	to       string
	fromName string
	replyTo  string
	data     any
}

// dispatch renders and sends all envelopes concurrently and waits for them.
// Sending is detached from ctx cancellation: once the record is stored, a
// client disconnect must not abort the mails.
func (n *Notifier) dispatch(ctx context.Context, recordID string, envs ...envelope) Deliveries {
	ctx = context.WithoutCancel(ctx)
	out := make(Deliveries, len(envs))

	var wg sync.WaitGroup
	for i, env := range envs {
		wg.Add(1)
		go func(i int, env envelope) {
			defer wg.Done()
			out[i] = Delivery{Kind: env.kind, To: env.to, Err: n.send(ctx, env)}
		}(i, env)
	}
	wg.Wait()

	for _, d := range out {
		if d.Err != nil {
			metrics.RecordMail(string(d.Kind), "failed")
			slog.Error("mail delivery failed",
				"record_id", recordID,
				"kind", d.Kind,
				"to", d.To,
				"error", d.Err,
			)
			continue
		}
		metrics.RecordMail(string(d.Kind), "sent")
		slog.Info("mail sent", "record_id", recordID, "kind", d.Kind)
	}
	return out
}

func (n *Notifier) send(ctx context.Context, env envelope) error {
	msg, err := n.renderer.Render(env.kind, env.data)
	if err != nil {
		return err
	}
	msg.To = env.to
	msg.FromName = env.fromName
	msg.ReplyTo = env.replyTo
	return n.sender.Send(ctx, msg)
}

// skip records that the given kinds were not attempted.
func (n *Notifier) skip(recordID string, reason error, kinds ...mail.Kind) {
	for _, k := range kinds {
		metrics.RecordMail(string(k), "skipped")
	}
	slog.Warn("mail transport unavailable, skipping notifications",
		"record_id", recordID,
		"error", reason,
	)
}

func (n *Notifier) from(role string) string {
	return n.cfg.BrandName + " " + role
}

func (n *Notifier) year() int {
	return n.now().Year()
}

package service

import (
	"fmt"
	"strings"

	"github.com/kavacham/backend/internal/mail"
)

// ValidationError reports malformed or missing input. It maps to HTTP 400.
type ValidationError struct {
	Field   string // json field name
	Code    string // machine readable, e.g. "email_required"
	Message string // shown to the visitor
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConfigurationError reports missing deployment settings. It maps to HTTP 500
// and is returned before any store or mail I/O.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + strings.Join(e.Missing, ", ")
}

// StoreError wraps a failed persistence operation. It maps to HTTP 500.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// MailError describes one failed delivery. It is logged, never returned to
// the caller once the record has been stored.
type MailError struct {
	Kind mail.Kind
	To   string
	Err  error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("mail %s to %s: %v", e.Kind, e.To, e.Err)
}

func (e *MailError) Unwrap() error {
	return e.Err
}

package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// ContactData feeds the contact_confirmation and contact_admin templates.
type ContactData struct {
	RecordID     string
	CustomerName string
	Email        string
	Phone        string
	Message      string
	Year         int
}

// AstrologerData feeds the astrologer_welcome and astrologer_admin templates.
type AstrologerData struct {
	RecordID       string
	Name           string
	Email          string
	Phone          string
	DateOfBirth    string
	Gender         string
	Experience     int
	Specialization string
	Languages      []string
	Services       []string
	About          string
	Year           int
}

// WaitlistData feeds the waitlist_welcome and waitlist_admin templates.
type WaitlistData struct {
	RecordID string
	Email    string
	JoinedAt time.Time
	Year     int
}

var funcs = map[string]any{
	"join": strings.Join,
	"datetime": func(t time.Time) string {
		return t.Format("02 Jan 2006 15:04 MST")
	},
}

// Renderer turns template data into subject, HTML and plain-text bodies.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Render builds a Message of the given kind. The caller fills in To and
// FromName.
func (r *Renderer) Render(kind Kind, data any) (*Message, error) {
	var subject, text, html bytes.Buffer
	if err := r.text.ExecuteTemplate(&subject, "subject_"+string(kind), data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", kind, err)
	}
	if err := r.text.ExecuteTemplate(&text, string(kind)+".txt", data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", kind, err)
	}
	if err := r.html.ExecuteTemplate(&html, string(kind)+".html", data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", kind, err)
	}
	return &Message{
		Kind:    kind,
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

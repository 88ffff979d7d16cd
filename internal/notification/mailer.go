// Package notification renders the transactional emails of the site and hands
// them to the email provider.
package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	booking "github.com/resyne/site-api/internal/booking/domain"
	"github.com/resyne/site-api/internal/infrastructure/resend"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers a rendered email and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, email resend.Email) (string, error)
}

// Config configures Mailer.
type Config struct {
	Sender      Sender
	From        string
	BookingFrom string
	TeamAddress string
}

// Mailer implements the audit and booking mailer ports.
type Mailer struct {
	sender      Sender
	from        string
	bookingFrom string
	team        string
	templates   *template.Template
}

var funcs = template.FuncMap{
	"yesno": func(v bool) string {
		if v {
			return "Sì"
		}
		return "No"
	},
	"join": strings.Join,
	"lines": func(text string) []string {
		out := []string{}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	},
}

func NewMailer(cfg Config) (*Mailer, error) {
	tmpl, err := template.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Mailer{
		sender:      cfg.Sender,
		from:        cfg.From,
		bookingFrom: cfg.BookingFrom,
		team:        cfg.TeamAddress,
		templates:   tmpl,
	}, nil
}

func (m *Mailer) SendWebsiteConfirmation(ctx context.Context, b booking.WebsiteBooking) (string, error) {
	return m.send(ctx, "website_confirmation.html", b, resend.Email{
		From:    m.from,
		To:      []string{b.Email},
		Subject: "Conferma Richiesta Appuntamento - Resyne",
	})
}

func (m *Mailer) SendWebsiteTeamNotice(ctx context.Context, b booking.WebsiteBooking) (string, error) {
	return m.send(ctx, "website_team_notice.html", b, resend.Email{
		From:    m.bookingFrom,
		To:      []string{m.team},
		ReplyTo: b.Email,
		Subject: fmt.Sprintf("Nuova Richiesta Appuntamento - %s %s", b.FirstName, b.LastName),
	})
}

func (m *Mailer) SendCallConfirmation(ctx context.Context, b booking.CallBooking) (string, error) {
	return m.send(ctx, "call_confirmation.html", b, resend.Email{
		From:    m.from,
		To:      []string{b.Email},
		Subject: fmt.Sprintf("Conferma Appuntamento - %s alle %s", b.Date, b.Time),
	})
}

func (m *Mailer) SendCallTeamNotice(ctx context.Context, b booking.CallBooking) (string, error) {
	return m.send(ctx, "call_team_notice.html", b, resend.Email{
		From:    m.bookingFrom,
		To:      []string{m.team},
		ReplyTo: b.Email,
		Subject: fmt.Sprintf("Nuovo Appuntamento: %s %s - %s %s", b.FirstName, b.LastName, b.Date, b.Time),
	})
}

// SendAuditReport emails the generated report, with the PDF attached when one
// was rendered.
func (m *Mailer) SendAuditReport(ctx context.Context, e auditapp.AuditReportEmail) error {
	email := resend.Email{
		From:    m.from,
		To:      []string{e.Contact.Email},
		Subject: "Il tuo Audit AI personalizzato - Resyne",
		Text:    e.Report,
	}
	if len(e.Attachment) > 0 {
		email.Attachments = []resend.Attachment{{Filename: e.Filename, Content: e.Attachment}}
	}
	_, err := m.send(ctx, "audit_report.html", e, email)
	return err
}

func (m *Mailer) send(ctx context.Context, name string, data any, email resend.Email) (string, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	email.HTML = buf.String()
	return m.sender.Send(ctx, email)
}

package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	audit "github.com/resyne/site-api/internal/audit/domain"
	booking "github.com/resyne/site-api/internal/booking/domain"
	"github.com/resyne/site-api/internal/infrastructure/resend"
)

type recordingSender struct {
	emails []resend.Email
}

func (r *recordingSender) Send(_ context.Context, email resend.Email) (string, error) {
	r.emails = append(r.emails, email)
	return "id", nil
}

func newTestMailer(t *testing.T) (*Mailer, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	m, err := NewMailer(Config{
		Sender:      sender,
		From:        "Re-Syne <contact@re-syne.com>",
		BookingFrom: "Re-Syne Bookings <contact@re-syne.com>",
		TeamAddress: "contact@re-syne.com",
	})
	require.NoError(t, err)
	return m, sender
}

func TestWebsiteEmails(t *testing.T) {
	m, sender := newTestMailer(t)
	hasWebsite, hasLogo := true, false
	b := booking.WebsiteBooking{
		FirstName:       "Giulia",
		LastName:        "Bianchi",
		Email:           "giulia@example.com",
		Phone:           "333",
		City:            "Torino",
		HasWebsite:      &hasWebsite,
		HasLogo:         &hasLogo,
		AppointmentDate: "21/10/2026",
		AppointmentTime: "15:00",
		PreferWhatsApp:  true,
		PreferEmail:     true,
	}

	_, err := m.SendWebsiteConfirmation(context.Background(), b)
	require.NoError(t, err)
	_, err = m.SendWebsiteTeamNotice(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, sender.emails, 2)

	customer := sender.emails[0]
	assert.Equal(t, []string{"giulia@example.com"}, customer.To)
	assert.Equal(t, "Conferma Richiesta Appuntamento - Resyne", customer.Subject)
	assert.Contains(t, customer.HTML, "Grazie Giulia!")
	assert.Contains(t, customer.HTML, "Hai già un sito web: Sì")
	assert.Contains(t, customer.HTML, "Hai un logo aziendale: No")
	assert.Contains(t, customer.HTML, "WhatsApp, Email")

	team := sender.emails[1]
	assert.Equal(t, []string{"contact@re-syne.com"}, team.To)
	assert.Equal(t, "Re-Syne Bookings <contact@re-syne.com>", team.From)
	assert.Equal(t, "giulia@example.com", team.ReplyTo)
	assert.Equal(t, "Nuova Richiesta Appuntamento - Giulia Bianchi", team.Subject)
	assert.Contains(t, team.HTML, "Torino")
}

func TestCallEmails(t *testing.T) {
	m, sender := newTestMailer(t)
	b := booking.CallBooking{
		FirstName: "Luca",
		LastName:  "Verdi",
		Email:     "luca@example.com",
		Message:   "<script>alert(1)</script>",
		Date:      "22/10/2026",
		Time:      "09:30",
		Platform:  "Google Meet",
	}

	_, err := m.SendCallConfirmation(context.Background(), b)
	require.NoError(t, err)
	_, err = m.SendCallTeamNotice(context.Background(), b)
	require.NoError(t, err)

	customer := sender.emails[0]
	assert.Equal(t, "Conferma Appuntamento - 22/10/2026 alle 09:30", customer.Subject)
	assert.Contains(t, customer.HTML, "Gentile Luca Verdi")
	assert.NotContains(t, customer.HTML, "<script>")

	team := sender.emails[1]
	assert.Equal(t, "Nuovo Appuntamento: Luca Verdi - 22/10/2026 09:30", team.Subject)
	assert.Contains(t, team.HTML, "Google Meet")
	assert.NotContains(t, team.HTML, "tel:", "phone is optional for calls")
}

func TestAuditReportEmail(t *testing.T) {
	m, sender := newTestMailer(t)
	report := "**1. Analisi**\nPrima riga\n\nSeconda riga"
	err := m.SendAuditReport(context.Background(), auditapp.AuditReportEmail{
		Reference:  "AUD-1234",
		Contact:    audit.ContactInfo{FirstName: "Anna", LastName: "Neri", Email: "anna@example.com", Company: "Alu Srl"},
		Report:     report,
		Sections:   audit.SplitSections(report),
		Filename:   "audit-report-neri-1.pdf",
		Attachment: []byte("%PDF"),
	})
	require.NoError(t, err)

	email := sender.emails[0]
	assert.Equal(t, []string{"anna@example.com"}, email.To)
	assert.Equal(t, report, email.Text)
	assert.Contains(t, email.HTML, "1. Analisi")
	assert.Contains(t, email.HTML, "<p style=\"line-height: 1.5;\">Seconda riga</p>")
	assert.Contains(t, email.HTML, "AUD-1234")
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "audit-report-neri-1.pdf", email.Attachments[0].Filename)
}

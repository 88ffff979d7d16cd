package domain

import (
	"strings"
	"time"

	"github.com/resyne/site-api/internal/validation"
)

// WebsiteBooking is a request for the "website in 1 day" appointment.
type WebsiteBooking struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	HasWebsite       *bool  `json:"hasWebsite"`
	HasLogo          *bool  `json:"hasLogo"`
	AppointmentDate  string `json:"appointmentDate"`
	AppointmentTime  string `json:"appointmentTime"`
	PreferWhatsApp   bool   `json:"preferWhatsApp"`
	PreferEmail      bool   `json:"preferEmail"`
	PreferPhone      bool   `json:"preferPhone"`
	PreferConference bool   `json:"preferConference"`
}

// Normalize trims the booking and validates it against the calendar at now.
func (b *WebsiteBooking) Normalize(now time.Time) error {
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	b.City = strings.TrimSpace(b.City)
	b.Phone = strings.TrimSpace(b.Phone)
	b.AppointmentDate = strings.TrimSpace(b.AppointmentDate)
	b.AppointmentTime = strings.TrimSpace(b.AppointmentTime)

	var c validation.Collector
	if c.Required("firstName", b.FirstName, "Nome richiesto") {
		c.MaxRunes("firstName", b.FirstName, 100, "Il nome deve contenere al massimo 100 caratteri")
	}
	if c.Required("lastName", b.LastName, "Cognome richiesto") {
		c.MaxRunes("lastName", b.LastName, 100, "Il cognome deve contenere al massimo 100 caratteri")
	}
	b.Email = checkEmail(&c, b.Email)
	c.MaxRunes("city", b.City, 100, "La città deve contenere al massimo 100 caratteri")
	if c.Required("phone", b.Phone, "Telefono richiesto") {
		c.MaxRunes("phone", b.Phone, 50, "Il telefono deve contenere al massimo 50 caratteri")
	}
	if b.HasWebsite == nil {
		c.Add("hasWebsite", "Indica se hai già un sito web")
	}
	if b.HasLogo == nil {
		c.Add("hasLogo", "Indica se hai già un logo")
	}

	if day, ok := checkDate(&c, "appointmentDate", b.AppointmentDate, KindWebsite, now); ok {
		b.AppointmentDate = day.Format("02/01/2006")
		checkSlot(&c, "appointmentTime", b.AppointmentTime, KindWebsite)
	} else if b.AppointmentTime == "" {
		c.Add("appointmentTime", "Seleziona un orario")
	}
	return c.Err()
}

// Preferences lists the chosen contact channels with their Italian labels.
func (b WebsiteBooking) Preferences() []string {
	prefs := make([]string, 0, 4)
	if b.PreferWhatsApp {
		prefs = append(prefs, "WhatsApp")
	}
	if b.PreferEmail {
		prefs = append(prefs, "Email")
	}
	if b.PreferPhone {
		prefs = append(prefs, "Telefono")
	}
	if b.PreferConference {
		prefs = append(prefs, "Videochiamata")
	}
	return prefs
}

// OwnsWebsite reports the hasWebsite answer; unanswered reads as no.
func (b WebsiteBooking) OwnsWebsite() bool { return b.HasWebsite != nil && *b.HasWebsite }

// OwnsLogo reports the hasLogo answer; unanswered reads as no.
func (b WebsiteBooking) OwnsLogo() bool { return b.HasLogo != nil && *b.HasLogo }

// FullName joins first and last name.
func (b WebsiteBooking) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Platform is a channel offered for the discovery call.
type Platform struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Platforms are the call channels offered by the book-a-call page.
var Platforms = []Platform{
	{ID: "google-meet", Label: "Google Meet"},
	{ID: "phone", Label: "Cellulare"},
	{ID: "whatsapp", Label: "WhatsApp Call"},
}

// PlatformLabel resolves a platform id or label.
func PlatformLabel(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, p := range Platforms {
		if strings.EqualFold(p.ID, value) || strings.EqualFold(p.Label, value) {
			return p.Label, true
		}
	}
	return "", false
}

// CallBooking is a request for a discovery call.
type CallBooking struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message,omitempty"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Platform  string `json:"platform"`
}

// Normalize trims the booking and validates it against the calendar at now.
// The date may be a localised display string; it is then kept verbatim and
// only its presence is checked.
func (b *CallBooking) Normalize(now time.Time) error {
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Message = strings.TrimSpace(b.Message)
	b.Date = strings.TrimSpace(b.Date)
	b.Time = strings.TrimSpace(b.Time)

	var c validation.Collector
	if c.Required("firstName", b.FirstName, "Nome richiesto") {
		c.MaxRunes("firstName", b.FirstName, 100, "Il nome deve contenere al massimo 100 caratteri")
	}
	if c.Required("lastName", b.LastName, "Cognome richiesto") {
		c.MaxRunes("lastName", b.LastName, 100, "Il cognome deve contenere al massimo 100 caratteri")
	}
	b.Email = checkEmail(&c, b.Email)
	c.MaxRunes("phone", b.Phone, 50, "Il telefono deve contenere al massimo 50 caratteri")
	c.MaxRunes("message", b.Message, 2000, "Il messaggio deve contenere al massimo 2000 caratteri")

	if c.Required("date", b.Date, "Seleziona una data") {
		if day, err := ParseDate(b.Date, now.Location()); err == nil {
			if !IsBookable(KindCall, day, now) {
				c.Add("date", "Data non disponibile")
			} else {
				checkSlot(&c, "time", b.Time, KindCall)
			}
		} else if c.Required("time", b.Time, "Seleziona un orario") {
			c.OneOf("time", b.Time, CallSlots, "Orario non valido")
		}
	} else {
		c.Required("time", b.Time, "Seleziona un orario")
	}

	if c.Required("platform", b.Platform, "Seleziona una piattaforma") {
		if label, ok := PlatformLabel(b.Platform); ok {
			b.Platform = label
		} else {
			c.Add("platform", "Piattaforma non valida")
		}
	}
	return c.Err()
}

// FullName joins first and last name.
func (b CallBooking) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Submission is a booking kept for the team after the emails were sent.
type Submission struct {
	ID          string
	Reference   string
	Kind        Kind
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	City        string
	Date        string
	Time        string
	Platform    string
	Message     string
	HasWebsite  bool
	HasLogo     bool
	Preferences []string
	CreatedAt   time.Time
}

// WebsiteSubmission converts a confirmed website booking.
func WebsiteSubmission(b WebsiteBooking) Submission {
	return Submission{
		Kind:        KindWebsite,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		Email:       b.Email,
		Phone:       b.Phone,
		City:        b.City,
		Date:        b.AppointmentDate,
		Time:        b.AppointmentTime,
		HasWebsite:  b.OwnsWebsite(),
		HasLogo:     b.OwnsLogo(),
		Preferences: b.Preferences(),
	}
}

// CallSubmission converts a confirmed call booking.
func CallSubmission(b CallBooking) Submission {
	return Submission{
		Kind:      KindCall,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		Date:      b.Date,
		Time:      b.Time,
		Platform:  b.Platform,
		Message:   b.Message,
	}
}

func checkEmail(c *validation.Collector, value string) string {
	if !c.Required("email", value, "Email richiesta") {
		return ""
	}
	email, err := validation.NormalizeEmail(value)
	if err != nil {
		c.Add("email", err.Error())
		return strings.TrimSpace(value)
	}
	return email
}

func checkDate(c *validation.Collector, field, value string, kind Kind, now time.Time) (time.Time, bool) {
	if !c.Required(field, value, "Seleziona una data") {
		return time.Time{}, false
	}
	day, err := ParseDate(value, now.Location())
	if err != nil {
		c.Add(field, "Data non valida")
		return time.Time{}, false
	}
	if !IsBookable(kind, day, now) {
		c.Add(field, "Data non disponibile")
		return time.Time{}, false
	}
	return day, true
}

func checkSlot(c *validation.Collector, field, value string, kind Kind) {
	if !c.Required(field, value, "Seleziona un orario") {
		return
	}
	if !containsSlot(Slots(kind), value) {
		c.Add(field, "Orario non valido")
	}
}

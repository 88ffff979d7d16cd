package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/resyne/site-api/internal/validation"
)

// ReportRequest is the payload accepted by generate-audit-report.
type ReportRequest struct {
	Sector             string       `json:"sector"`
	Description        string       `json:"description"`
	YearsInMarket      string       `json:"yearsInMarket"`
	Revenue            string       `json:"revenue"`
	MainProcesses      string       `json:"mainProcesses"`
	CurrentTools       string       `json:"currentTools"`
	MultipleLocations  string       `json:"multipleLocations"`
	CustomerManagement string       `json:"customerManagement"`
	RepetitiveTasks    string       `json:"repetitiveTasks"`
	ManualReports      string       `json:"manualReports"`
	ForecastAreas      string       `json:"forecastAreas"`
	AIAreas            string       `json:"aiAreas"`
	ContactInfo        *ContactInfo `json:"contactInfo,omitempty"`
}

// Validate trims the request and checks that every answer is present.
func (r *ReportRequest) Validate() error {
	fields := []struct {
		name    string
		value   *string
		message string
	}{
		{"sector", &r.Sector, "Seleziona un settore"},
		{"description", &r.Description, "Descrivi brevemente la tua azienda"},
		{"yearsInMarket", &r.YearsInMarket, "Seleziona da quanto tempo sei sul mercato"},
		{"revenue", &r.Revenue, "Seleziona la fascia di ricavi"},
		{"mainProcesses", &r.MainProcesses, "Seleziona almeno un processo principale"},
		{"currentTools", &r.CurrentTools, "Indica quali strumenti usate per lavorare"},
		{"multipleLocations", &r.MultipleLocations, "Specifica se avete più sedi o reparti"},
		{"customerManagement", &r.CustomerManagement, "Descrivi come gestisci i clienti"},
		{"repetitiveTasks", &r.RepetitiveTasks, "Specifica se ci sono attività ripetitive"},
		{"manualReports", &r.ManualReports, "Specifica se avete bisogno di report/KPI"},
		{"forecastAreas", &r.ForecastAreas, "Specifica se servono previsioni o analisi"},
		{"aiAreas", &r.AIAreas, "Descrivi dove vedresti utile un assistente AI nella tua azienda"},
	}

	var c validation.Collector
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		c.Required(f.name, *f.value, f.message)
	}

	if r.ContactInfo != nil {
		if r.ContactInfo.IsEmpty() {
			r.ContactInfo = nil
		} else if err := r.ContactInfo.Validate(); err != nil {
			if verr, ok := validation.As(err); ok {
				for _, f := range verr.Fields {
					c.Add("contactInfo."+f.Field, f.Message)
				}
			}
		}
	}
	return c.Err()
}

// ContactInfo identifies who receives the report by email.
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
}

// IsEmpty reports whether no contact field was filled in.
func (c ContactInfo) IsEmpty() bool {
	return strings.TrimSpace(c.FirstName+c.LastName+c.Email+c.Phone+c.Company) == ""
}

// FullName joins first and last name.
func (c ContactInfo) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Validate trims the contact and requires every field.
func (c *ContactInfo) Validate() error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)

	var v validation.Collector
	v.Required("firstName", c.FirstName, "Nome richiesto")
	v.Required("lastName", c.LastName, "Cognome richiesto")
	v.Required("company", c.Company, "Nome azienda richiesto")
	if v.Required("email", c.Email, "Email richiesta") {
		email, err := validation.NormalizeEmail(c.Email)
		if err != nil {
			v.Add("email", err.Error())
		} else {
			c.Email = email
		}
	}
	v.Required("phone", c.Phone, "Telefono richiesto")
	return v.Err()
}

// AuditSubmission is a generated report kept for follow-up by the team.
type AuditSubmission struct {
	ID        string
	Reference string
	Request   ReportRequest
	Report    string
	EmailSent bool
	CreatedAt time.Time
}

// ReportDocument is the input of the PDF renderer.
type ReportDocument struct {
	Contact     ContactInfo `json:"contact"`
	Report      string      `json:"report"`
	GeneratedAt time.Time   `json:"-"`
}

// Filename is the download name of the rendered report.
func (d ReportDocument) Filename() string {
	name := strings.ToLower(strings.Join(strings.Fields(d.Contact.LastName), "-"))
	if name == "" {
		name = "cliente"
	}
	return "audit-report-" + name + "-" + strconv.FormatInt(d.GeneratedAt.UnixMilli(), 10) + ".pdf"
}

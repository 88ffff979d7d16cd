package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditdomain "github.com/resyne/site-api/internal/audit/domain"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
)

// AuditDocument is the stored form of a generated audit report.
type AuditDocument struct {
	ID        primitive.ObjectID    `bson:"_id"`
	Reference string                `bson:"reference"`
	Request   AuditRequestDocument  `bson:"request"`
	Contact   *AuditContactDocument `bson:"contact,omitempty"`
	Report    string                `bson:"report"`
	EmailSent bool                  `bson:"emailSent"`
	CreatedAt time.Time             `bson:"createdAt"`
}

// AuditRequestDocument mirrors the answers sent to the LLM.
type AuditRequestDocument struct {
	Sector             string `bson:"sector"`
	Description        string `bson:"description"`
	YearsInMarket      string `bson:"yearsInMarket"`
	Revenue            string `bson:"revenue"`
	MainProcesses      string `bson:"mainProcesses"`
	CurrentTools       string `bson:"currentTools"`
	MultipleLocations  string `bson:"multipleLocations"`
	CustomerManagement string `bson:"customerManagement"`
	RepetitiveTasks    string `bson:"repetitiveTasks"`
	ManualReports      string `bson:"manualReports"`
	ForecastAreas      string `bson:"forecastAreas"`
	AIAreas            string `bson:"aiAreas"`
}

// AuditContactDocument is the contact the report was emailed to.
type AuditContactDocument struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
	Email     string `bson:"email"`
	Phone     string `bson:"phone"`
	Company   string `bson:"company"`
}

// BookingDocument is the stored form of a confirmed booking of either kind.
type BookingDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Reference   string             `bson:"reference"`
	Kind        string             `bson:"kind"`
	FirstName   string             `bson:"firstName"`
	LastName    string             `bson:"lastName"`
	Email       string             `bson:"email"`
	Phone       string             `bson:"phone,omitempty"`
	City        string             `bson:"city,omitempty"`
	Date        string             `bson:"date"`
	Time        string             `bson:"time"`
	Platform    string             `bson:"platform,omitempty"`
	Message     string             `bson:"message,omitempty"`
	HasWebsite  bool               `bson:"hasWebsite,omitempty"`
	HasLogo     bool               `bson:"hasLogo,omitempty"`
	Preferences []string           `bson:"preferences,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// FailedNotificationDocument is a team notice that exhausted its retries.
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Target      string             `bson:"target"`
	Payload     bson.M             `bson:"payload"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastTriedAt time.Time          `bson:"lastTriedAt"`
	ResolvedAt  *time.Time         `bson:"resolvedAt,omitempty"`
}

func newAuditDocument(s *auditdomain.AuditSubmission) AuditDocument {
	r := s.Request
	doc := AuditDocument{
		ID:        primitive.NewObjectID(),
		Reference: s.Reference,
		Request: AuditRequestDocument{
			Sector:             r.Sector,
			Description:        r.Description,
			YearsInMarket:      r.YearsInMarket,
			Revenue:            r.Revenue,
			MainProcesses:      r.MainProcesses,
			CurrentTools:       r.CurrentTools,
			MultipleLocations:  r.MultipleLocations,
			CustomerManagement: r.CustomerManagement,
			RepetitiveTasks:    r.RepetitiveTasks,
			ManualReports:      r.ManualReports,
			ForecastAreas:      r.ForecastAreas,
			AIAreas:            r.AIAreas,
		},
		Report:    s.Report,
		EmailSent: s.EmailSent,
		CreatedAt: s.CreatedAt,
	}
	if c := r.ContactInfo; c != nil {
		doc.Contact = &AuditContactDocument{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Company:   c.Company,
		}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return doc
}

func mapAuditDocument(doc AuditDocument) auditdomain.AuditSubmission {
	r := doc.Request
	submission := auditdomain.AuditSubmission{
		ID:        doc.ID.Hex(),
		Reference: doc.Reference,
		Request: auditdomain.ReportRequest{
			Sector:             r.Sector,
			Description:        r.Description,
			YearsInMarket:      r.YearsInMarket,
			Revenue:            r.Revenue,
			MainProcesses:      r.MainProcesses,
			CurrentTools:       r.CurrentTools,
			MultipleLocations:  r.MultipleLocations,
			CustomerManagement: r.CustomerManagement,
			RepetitiveTasks:    r.RepetitiveTasks,
			ManualReports:      r.ManualReports,
			ForecastAreas:      r.ForecastAreas,
			AIAreas:            r.AIAreas,
		},
		Report:    doc.Report,
		EmailSent: doc.EmailSent,
		CreatedAt: doc.CreatedAt,
	}
	if c := doc.Contact; c != nil {
		submission.Request.ContactInfo = &auditdomain.ContactInfo{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Company:   c.Company,
		}
	}
	return submission
}

func newBookingDocument(s *bookingdomain.Submission) BookingDocument {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return BookingDocument{
		ID:          primitive.NewObjectID(),
		Reference:   s.Reference,
		Kind:        string(s.Kind),
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		Phone:       s.Phone,
		City:        s.City,
		Date:        s.Date,
		Time:        s.Time,
		Platform:    s.Platform,
		Message:     s.Message,
		HasWebsite:  s.HasWebsite,
		HasLogo:     s.HasLogo,
		Preferences: append([]string{}, s.Preferences...),
		CreatedAt:   createdAt,
	}
}

func mapBookingDocument(doc BookingDocument) bookingdomain.Submission {
	return bookingdomain.Submission{
		ID:          doc.ID.Hex(),
		Reference:   doc.Reference,
		Kind:        bookingdomain.Kind(doc.Kind),
		FirstName:   doc.FirstName,
		LastName:    doc.LastName,
		Email:       doc.Email,
		Phone:       doc.Phone,
		City:        doc.City,
		Date:        doc.Date,
		Time:        doc.Time,
		Platform:    doc.Platform,
		Message:     doc.Message,
		HasWebsite:  doc.HasWebsite,
		HasLogo:     doc.HasLogo,
		Preferences: append([]string{}, doc.Preferences...),
		CreatedAt:   doc.CreatedAt,
	}
}

func newFailedNotificationDocument(f *bookingapp.FailedNotification) FailedNotificationDocument {
	status := f.Status
	if status == "" {
		status = bookingapp.FailureStatusPending
	}
	payload := bson.M{}
	for k, v := range f.Payload {
		payload[k] = v
	}
	return FailedNotificationDocument{
		ID:          primitive.NewObjectID(),
		Target:      f.Target,
		Payload:     payload,
		Error:       f.Error,
		Attempts:    f.Attempts,
		Status:      status,
		CreatedAt:   f.CreatedAt,
		LastTriedAt: f.LastTriedAt,
	}
}

func mapFailedNotificationDocument(doc FailedNotificationDocument) bookingapp.FailedNotification {
	payload := make(map[string]any, len(doc.Payload))
	for k, v := range doc.Payload {
		payload[k] = v
	}
	return bookingapp.FailedNotification{
		ID:          doc.ID.Hex(),
		Target:      doc.Target,
		Payload:     payload,
		Error:       doc.Error,
		Attempts:    doc.Attempts,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		LastTriedAt: doc.LastTriedAt,
	}
}

// pageOptions sorts newest first and applies page/limit when a limit is set.
func pageOptions(page, limit int) *options.FindOptions {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
		if page > 1 {
			findOpts.SetSkip(int64((page - 1) * limit))
		}
	}
	return findOpts
}

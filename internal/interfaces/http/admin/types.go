package admin

import (
	"time"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	auditdomain "github.com/resyne/site-api/internal/audit/domain"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
)

type auditResponse struct {
	ID        string                    `json:"id"`
	Reference string                    `json:"reference"`
	Request   auditdomain.ReportRequest `json:"request"`
	Report    string                    `json:"report,omitempty"`
	EmailSent bool                      `json:"emailSent"`
	CreatedAt time.Time                 `json:"createdAt"`
}

type auditListResponse struct {
	Items []auditResponse `json:"items"`
}

type bookingResponse struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	Kind        string    `json:"kind"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	City        string    `json:"city,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Platform    string    `json:"platform,omitempty"`
	Message     string    `json:"message,omitempty"`
	HasWebsite  bool      `json:"hasWebsite"`
	HasLogo     bool      `json:"hasLogo"`
	Preferences []string  `json:"preferences,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type bookingListResponse struct {
	Items []bookingResponse `json:"items"`
}

type failedNotificationResponse struct {
	ID          string         `json:"id"`
	Target      string         `json:"target"`
	Payload     map[string]any `json:"payload"`
	Error       string         `json:"error"`
	Attempts    int            `json:"attempts"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastTriedAt time.Time      `json:"lastTriedAt"`
}

type failedNotificationListResponse struct {
	Items []failedNotificationResponse `json:"items"`
}

// auditToResponse drops the report body from list items; detail keeps it.
func auditToResponse(s auditdomain.AuditSubmission, withReport bool) auditResponse {
	resp := auditResponse{
		ID:        s.ID,
		Reference: s.Reference,
		Request:   s.Request,
		EmailSent: s.EmailSent,
		CreatedAt: s.CreatedAt,
	}
	if withReport {
		resp.Report = s.Report
	}
	return resp
}

func bookingToResponse(s bookingdomain.Submission) bookingResponse {
	return bookingResponse{
		ID:          s.ID,
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
		Preferences: s.Preferences,
		CreatedAt:   s.CreatedAt,
	}
}

func failedNotificationToResponse(f bookingapp.FailedNotification) failedNotificationResponse {
	payload := f.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return failedNotificationResponse{
		ID:          f.ID,
		Target:      f.Target,
		Payload:     payload,
		Error:       f.Error,
		Attempts:    f.Attempts,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		LastTriedAt: f.LastTriedAt,
	}
}

func auditPaging(page, limit int) auditapp.Paging {
	return auditapp.Paging{Page: page, Limit: limit}
}

func bookingPaging(page, limit int) bookingapp.Paging {
	return bookingapp.Paging{Page: page, Limit: limit}
}

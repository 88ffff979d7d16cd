package public

import (
	auditdomain "github.com/resyne/site-api/internal/audit/domain"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
)

type generateReportResponse struct {
	Success   bool                      `json:"success"`
	Reference string                    `json:"reference"`
	Report    string                    `json:"report"`
	FormData  auditdomain.ReportRequest `json:"formData"`
	EmailSent *bool                     `json:"emailSent,omitempty"`
}

type emailReceipt struct {
	ID string `json:"id"`
}

type websiteBookingResponse struct {
	Success       bool         `json:"success"`
	Reference     string       `json:"reference"`
	CustomerEmail emailReceipt `json:"customerEmail"`
	AdminEmail    emailReceipt `json:"adminEmail"`
	TeamPending   bool         `json:"teamNoticePending,omitempty"`
}

type callBookingResponse struct {
	Success       bool         `json:"success"`
	Reference     string       `json:"reference"`
	CustomerEmail emailReceipt `json:"customerEmail"`
	TeamEmail     emailReceipt `json:"teamEmail"`
	TeamPending   bool         `json:"teamNoticePending,omitempty"`
}

type auditOptionsResponse struct {
	Sectors       []string                    `json:"sectors"`
	YearsInMarket []string                    `json:"yearsInMarket"`
	Revenue       []string                    `json:"revenue"`
	Processes     []auditdomain.ProcessOption `json:"processes"`
	Steps         map[int][]string            `json:"steps"`
	YesNo         []string                    `json:"yesNo"`
}

type stepResponse struct {
	Success        bool                       `json:"success"`
	Step           int                        `json:"step"`
	IsLast         bool                       `json:"isLast"`
	VisibleDetails []string                   `json:"visibleDetails"`
	ReportRequest  *auditdomain.ReportRequest `json:"reportRequest,omitempty"`
}

type reportPDFRequest struct {
	Report  string                  `json:"report"`
	Contact auditdomain.ContactInfo `json:"contact"`
}

type slotsResponse struct {
	Success   bool                     `json:"success"`
	Kind      bookingdomain.Kind       `json:"kind"`
	Date      string                   `json:"date"`
	Bookable  bool                     `json:"bookable"`
	Slots     []string                 `json:"slots"`
	Platforms []bookingdomain.Platform `json:"platforms,omitempty"`
}

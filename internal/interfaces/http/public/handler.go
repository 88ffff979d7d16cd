package public

import (
	"log"

	"github.com/go-chi/chi/v5"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
)

// Handler wires the public endpoints called by the site to application services.
type Handler struct {
	logger   *log.Logger
	reports  *auditapp.ReportService
	bookings *bookingapp.Service
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *log.Logger
	Reports  *auditapp.ReportService
	Bookings *bookingapp.Service
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:   cfg.Logger,
		reports:  cfg.Reports,
		bookings: cfg.Bookings,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/generate-audit-report", h.generateReportHandler())
	r.Post("/send-booking-confirmation", h.websiteBookingHandler())
	r.Post("/send-booking-notification", h.callBookingHandler())

	r.Get("/audit/options", h.auditOptionsHandler())
	r.Post("/audit/steps/{step}/validate", h.validateStepHandler())
	r.Post("/audit/report.pdf", h.reportPDFHandler())
	r.Get("/booking/slots", h.slotsHandler())
}

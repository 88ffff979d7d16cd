package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger   *log.Logger
	reports  *auditapp.ReportService
	bookings *bookingapp.Service
}

// Config provides dependencies for Handler.
type Config struct {
	Logger   *log.Logger
	Reports  *auditapp.ReportService
	Bookings *bookingapp.Service
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:   cfg.Logger,
		reports:  cfg.Reports,
		bookings: cfg.Bookings,
	}
}

// Register mounts admin routes onto router. Authentication is applied by the
// caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/verify", h.verifyHandler())
	r.Get("/audits", h.auditListHandler())
	r.Get("/audits/{id}", h.auditDetailHandler())
	r.Get("/bookings", h.bookingListHandler())
	r.Get("/notifications/failed", h.failedNotificationListHandler())
	r.Post("/notifications/failed/{id}/resolve", h.failedNotificationResolveHandler())
}

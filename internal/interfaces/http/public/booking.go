package public

import (
	"net/http"
	"strings"

	"github.com/resyne/site-api/internal/booking/domain"
	"github.com/resyne/site-api/internal/interfaces/http/common"
	"github.com/resyne/site-api/internal/validation"
)

func (h *Handler) websiteBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.WebsiteBooking
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := h.bookings.ConfirmWebsiteBooking(r.Context(), req)
		if err != nil {
			h.logBookingError("send-booking-confirmation", err)
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, websiteBookingResponse{
			Success:       true,
			Reference:     result.Reference,
			CustomerEmail: emailReceipt{ID: result.CustomerEmailID},
			AdminEmail:    emailReceipt{ID: result.TeamEmailID},
			TeamPending:   result.TeamNoticePending,
		})
	}
}

func (h *Handler) callBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CallBooking
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := h.bookings.NotifyCallBooking(r.Context(), req)
		if err != nil {
			h.logBookingError("send-booking-notification", err)
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, callBookingResponse{
			Success:       true,
			Reference:     result.Reference,
			CustomerEmail: emailReceipt{ID: result.CustomerEmailID},
			TeamEmail:     emailReceipt{ID: result.TeamEmailID},
			TeamPending:   result.TeamNoticePending,
		})
	}
}

// slotsHandler lists the free slots of a day; without a date it uses the
// first bookable day.
func (h *Handler) slotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := domain.ParseKind(r.URL.Query().Get("kind"))
		if err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "Tipo di appuntamento non valido")
			return
		}

		now := h.bookings.Now()
		day := domain.NextBookableDay(kind, now)
		if value := strings.TrimSpace(r.URL.Query().Get("date")); value != "" {
			day, err = domain.ParseDate(value, h.bookings.Location())
			if err != nil {
				common.WriteMessage(h.logger, w, http.StatusBadRequest, "Data non valida")
				return
			}
		}

		resp := slotsResponse{
			Success:  true,
			Kind:     kind,
			Date:     day.Format("02/01/2006"),
			Bookable: domain.IsBookable(kind, day, now),
			Slots:    h.bookings.AvailableSlots(kind, day),
		}
		if kind == domain.KindCall {
			resp.Platforms = domain.Platforms
		}
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

func (h *Handler) logBookingError(endpoint string, err error) {
	if _, ok := validation.As(err); ok || h.logger == nil {
		return
	}
	h.logger.Printf("%s failed: %v", endpoint, err)
}

package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	bookingapp "github.com/resyne/site-api/internal/booking/application"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
	"github.com/resyne/site-api/internal/interfaces/http/common"
)

func (h *Handler) bookingListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter bookingapp.Filter
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := bookingdomain.ParseKind(raw)
			if err != nil {
				common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			filter.Kind = kind
		}
		page, limit := common.PageParams(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		bookings, err := h.bookings.List(ctx, filter, bookingPaging(page, limit))
		if err != nil {
			h.logger.Printf("admin booking list fetch failed: %v", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "impossibile caricare le prenotazioni")
			return
		}

		items := make([]bookingResponse, 0, len(bookings))
		for _, b := range bookings {
			items = append(items, bookingToResponse(b))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, bookingListResponse{Items: items})
	}
}

func (h *Handler) failedNotificationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		switch status {
		case "":
			status = bookingapp.FailureStatusPending
		case "all":
			status = ""
		case bookingapp.FailureStatusPending, bookingapp.FailureStatusResolved:
		default:
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "stato non valido: "+status)
			return
		}
		page, limit := common.PageParams(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures, err := h.bookings.FailedNotifications(ctx, status, bookingPaging(page, limit))
		if err != nil {
			h.logger.Printf("admin failed notification list fetch failed: %v", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "impossibile caricare le notifiche fallite")
			return
		}

		items := make([]failedNotificationResponse, 0, len(failures))
		for _, f := range failures {
			items = append(items, failedNotificationToResponse(f))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, failedNotificationListResponse{Items: items})
	}
}

func (h *Handler) failedNotificationResolveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.bookings.ResolveFailedNotification(ctx, id); err != nil {
			if errors.Is(err, bookingapp.ErrNotFound) {
				common.WriteMessage(h.logger, w, http.StatusNotFound, "notifica non trovata")
				return
			}
			h.logger.Printf("admin failed notification resolve failed id=%s err=%v", id, err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "impossibile aggiornare la notifica")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"success": true, "id": id})
	}
}

package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	"github.com/resyne/site-api/internal/interfaces/http/common"
)

func (h *Handler) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, ok := common.AdminFromContext(r.Context())
		if !ok {
			common.WriteMessage(h.logger, w, http.StatusUnauthorized, "non autenticato")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, admin)
	}
}

func (h *Handler) auditListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := common.PageParams(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		audits, err := h.reports.List(ctx, auditPaging(page, limit))
		if err != nil {
			h.logger.Printf("admin audit list fetch failed: %v", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "impossibile caricare gli audit")
			return
		}

		items := make([]auditResponse, 0, len(audits))
		for _, audit := range audits {
			items = append(items, auditToResponse(audit, false))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, auditListResponse{Items: items})
	}
}

func (h *Handler) auditDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		audit, err := h.reports.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, auditapp.ErrNotFound) {
				common.WriteMessage(h.logger, w, http.StatusNotFound, "audit non trovato")
				return
			}
			h.logger.Printf("admin audit detail fetch failed id=%s err=%v", id, err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "impossibile caricare l'audit")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, auditToResponse(*audit, true))
	}
}

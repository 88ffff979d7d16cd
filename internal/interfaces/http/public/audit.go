package public

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	"github.com/resyne/site-api/internal/audit/domain"
	"github.com/resyne/site-api/internal/interfaces/http/common"
	"github.com/resyne/site-api/internal/validation"
)

var detailFields = []string{
	domain.FieldExcelManualDetails,
	domain.FieldMultipleLocationsDetails,
	domain.FieldRepetitiveTasksDetails,
	domain.FieldReportKPIDetails,
	domain.FieldForecastsDetails,
}

func (h *Handler) generateReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ReportRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := h.reports.Generate(r.Context(), auditapp.GenerateReportCommand{Request: req})
		if err != nil {
			if _, ok := validation.As(err); !ok && h.logger != nil {
				h.logger.Printf("generate-audit-report failed: %v", err)
			}
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, generateReportResponse{
			Success:   true,
			Reference: result.Reference,
			Report:    result.Report,
			FormData:  result.Request,
			EmailSent: result.EmailSent,
		})
	}
}

func (h *Handler) auditOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, auditOptionsResponse{
			Sectors:       domain.Sectors,
			YearsInMarket: domain.YearsInMarketOptions,
			Revenue:       domain.RevenueOptions,
			Processes:     domain.ProcessOptions,
			Steps:         domain.StepFields,
			YesNo:         []string{domain.AnswerYes, domain.AnswerNo},
		})
	}
}

// validateStepHandler moves the wizard from one step. The direction query
// parameter is "next" (default, validates the step), "back" or "reset".
func (h *Handler) validateStepHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := strconv.Atoi(chi.URLParam(r, "step"))
		if err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "Step non valido")
			return
		}

		var answers domain.Answers
		if err := common.DecodeJSON(r, &answers); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		wizard, err := domain.ResumeWizard(step, answers)
		if err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "Step non valido")
			return
		}
		wasLast := false
		switch r.URL.Query().Get("direction") {
		case "", "next":
			wasLast = wizard.IsLast()
			if err := wizard.Next(); err != nil {
				common.WriteError(h.logger, w, err)
				return
			}
		case "back":
			wizard.Back()
		case "reset":
			wizard.Reset()
		default:
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "Direzione non valida")
			return
		}

		normalized := wizard.Answers()
		resp := stepResponse{
			Success:        true,
			Step:           wizard.Step(),
			IsLast:         wizard.IsLast(),
			VisibleDetails: make([]string, 0, len(detailFields)),
		}
		for _, field := range detailFields {
			if normalized.DetailVisible(field) {
				resp.VisibleDetails = append(resp.VisibleDetails, field)
			}
		}
		if wasLast {
			req := normalized.ReportRequest()
			resp.ReportRequest = &req
		}
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

func (h *Handler) reportPDFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportPDFRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		pdf, filename, err := h.reports.RenderPDF(r.Context(), req.Report, req.Contact)
		if err != nil {
			if errors.Is(err, auditapp.ErrEmptyReport) {
				common.WriteMessage(h.logger, w, http.StatusBadRequest, "Report mancante")
				return
			}
			if h.logger != nil {
				h.logger.Printf("report PDF failed: %v", err)
			}
			common.WriteError(h.logger, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdf); err != nil && h.logger != nil {
			h.logger.Printf("failed to write PDF response: %v", err)
		}
	}
}

package handler

import (
	"net/http"

	"accord/internal/service"
	"accord/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// ComparisonHandler handles comparison report and discussion guide endpoints
type ComparisonHandler struct {
	comparisonSvc *service.ComparisonService
	templateSvc   *service.TemplateService
	guideSvc      *service.GuideService
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(comparisonSvc *service.ComparisonService, templateSvc *service.TemplateService, guideSvc *service.GuideService) *ComparisonHandler {
	return &ComparisonHandler{
		comparisonSvc: comparisonSvc,
		templateSvc:   templateSvc,
		guideSvc:      guideSvc,
	}
}

// GetReport handles GET /v1/sessions/{code}/report
func (h *ComparisonHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	report, err := h.comparisonSvc.GetReport(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not ready")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetGuide handles GET /v1/sessions/{code}/guide
func (h *ComparisonHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	report, err := h.comparisonSvc.GetReport(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not ready")
		return
	}

	catalog, err := h.templateSvc.Scenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	guide, err := h.guideSvc.GenerateGuide(r.Context(), report, catalog)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, guide)
}

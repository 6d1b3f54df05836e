package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"accord/internal/engine"
	"accord/internal/model"
	"accord/internal/service"
	"accord/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// TemplateHandler handles template and scenario endpoints
type TemplateHandler struct {
	templateSvc *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateSvc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// CreateTemplateRequest is the request body for creating a template
type CreateTemplateRequest struct {
	Payload map[string]any `json:"payload"`
}

// Create handles POST /v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.templateSvc.Create(r.Context(), ownerID, req.Payload)
	if err != nil {
		if errors.Is(err, engine.ErrMalformedTemplate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"templateId": id})
}

// Get handles GET /v1/templates/{templateId}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.templateSvc.GetRaw(r.Context(), templateID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// GetNormalized handles GET /v1/templates/{templateId}/normalized
func (h *TemplateHandler) GetNormalized(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.templateSvc.GetNormalized(r.Context(), templateID)
	if err != nil {
		if errors.Is(err, engine.ErrMalformedTemplate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// List handles GET /v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	templates, err := h.templateSvc.GetByOwnerID(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// Update handles PUT /v1/templates/{templateId}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl := &model.RawTemplate{
		ID:      templateID,
		OwnerID: ownerID,
		Payload: req.Payload,
	}

	if err := h.templateSvc.Update(r.Context(), tpl); err != nil {
		if errors.Is(err, engine.ErrMalformedTemplate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Delete handles DELETE /v1/templates/{templateId}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.templateSvc.Delete(r.Context(), templateID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Scenarios handles GET /v1/scenarios
func (h *TemplateHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.templateSvc.Scenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"scenarios": catalog})
}

// UpsertScenario handles PUT /v1/scenarios/{scenarioId}
func (h *TemplateHandler) UpsertScenario(w http.ResponseWriter, r *http.Request) {
	scenarioID := mux.Vars(r)["scenarioId"]
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var scenario model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	scenario.ID = scenarioID

	if err := h.templateSvc.UpsertScenario(r.Context(), &scenario); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

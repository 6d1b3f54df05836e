package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"accord/internal/model"
	"accord/internal/service"
	"accord/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// ResponseHandler handles partner response endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SaveResponsesRequest is the request body for saving responses
type SaveResponsesRequest struct {
	Responses model.ResponseSet `json:"responses"`
}

// Save handles PUT /v1/sessions/{code}/responses
func (h *ResponseHandler) Save(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	role := middleware.GetRole(r.Context())
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	var req SaveResponsesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.responseSvc.SaveResponses(r.Context(), code, role, req.Responses)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":      "validation failed",
				"validation": report,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "saved",
		"validation": report,
	})
}

// Get handles GET /v1/sessions/{code}/responses
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	role := middleware.GetRole(r.Context())
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	responses, err := h.responseSvc.GetResponses(r.Context(), code, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if responses == nil {
		writeError(w, http.StatusNotFound, "no responses saved")
		return
	}

	writeJSON(w, http.StatusOK, responses)
}

// Submit handles POST /v1/sessions/{code}/submit
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	role := middleware.GetRole(r.Context())
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	if err := h.responseSvc.Submit(r.Context(), code, role); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}

package handler

import (
	"net/http"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/service"
	"go.uber.org/zap"
)

// StageHandler exposes the workflow stage log and the queries derived from it.
type StageHandler struct {
	stageService *service.StageService
	logger       *zap.Logger
}

func NewStageHandler(stageService *service.StageService, logger *zap.Logger) *StageHandler {
	return &StageHandler{stageService: stageService, logger: logger}
}

// Append handles POST /stages
func (h *StageHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req domain.AppendStageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.stageService.Append(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to append stage event", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// List handles GET /stages
func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.stageService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list stage events", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Get handles GET /stages/{id}
func (h *StageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.stageService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Update handles PATCH /stages/{id}
func (h *StageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateStageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.stageService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update stage event", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /stages/{id}
func (h *StageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.stageService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// History handles GET /work-orders/{id}/stages
func (h *StageHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dtos, err := h.stageService.History(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Latest handles GET /work-orders/{id}/stages/latest
func (h *StageHandler) Latest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.stageService.Latest(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// LatestSubmitted handles GET /stages/latest-submitted
func (h *StageHandler) LatestSubmitted(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stageService.LatestSubmitted(r.Context())
	if err != nil {
		h.logger.Error("failed to build submitted inbox", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// LatestAssigned handles GET /stages/assigned?userId=&stage=
// userId defaults to the authenticated user.
func (h *StageHandler) LatestAssigned(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = currentUserID(r)
	}
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'userId' is required")
		return
	}
	stage := r.URL.Query().Get("stage")
	if stage == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'stage' is required")
		return
	}

	item, err := h.stageService.LatestAssigned(r.Context(), userID, stage)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

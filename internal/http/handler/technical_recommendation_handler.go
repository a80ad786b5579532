package handler

import (
	"net/http"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/service"
	"go.uber.org/zap"
)

type TechnicalRecommendationHandler struct {
	trService *service.TechnicalRecommendationService
	logger    *zap.Logger
}

func NewTechnicalRecommendationHandler(trService *service.TechnicalRecommendationService, logger *zap.Logger) *TechnicalRecommendationHandler {
	return &TechnicalRecommendationHandler{trService: trService, logger: logger}
}

// Create handles POST /technical-recommendations
func (h *TechnicalRecommendationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTechnicalRecommendationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.trService.Create(r.Context(), &req, currentUserID(r))
	if err != nil {
		h.logger.Error("failed to create technical recommendation", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// List handles GET /technical-recommendations
func (h *TechnicalRecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.trService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list technical recommendations", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Get handles GET /technical-recommendations/{id}
func (h *TechnicalRecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.trService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Update handles PUT /technical-recommendations/{id}
func (h *TechnicalRecommendationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateTechnicalRecommendationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.trService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update technical recommendation", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /technical-recommendations/{id}
func (h *TechnicalRecommendationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.trService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

package handler

import (
	"net/http"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/service"
	"go.uber.org/zap"
)

type SalesLeadHandler struct {
	salesLeadService *service.SalesLeadService
	logger           *zap.Logger
}

func NewSalesLeadHandler(salesLeadService *service.SalesLeadService, logger *zap.Logger) *SalesLeadHandler {
	return &SalesLeadHandler{salesLeadService: salesLeadService, logger: logger}
}

// Create handles POST /sales-leads
func (h *SalesLeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSalesLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.salesLeadService.Create(r.Context(), &req, currentUserID(r))
	if err != nil {
		h.logger.Error("failed to create sales lead", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// List handles GET /sales-leads
func (h *SalesLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.salesLeadService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list sales leads", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Get handles GET /sales-leads/{id}
func (h *SalesLeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.salesLeadService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Update handles PUT /sales-leads/{id}
func (h *SalesLeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateSalesLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.salesLeadService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update sales lead", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /sales-leads/{id}
func (h *SalesLeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.salesLeadService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

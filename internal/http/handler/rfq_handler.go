package handler

import (
	"net/http"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/service"
	"go.uber.org/zap"
)

// RFQHandler exposes the RFQ module. Update is a desired-state PUT: the body
// carries the complete intended items/vendors/quotes collections and the
// service reconciles the stored rows against them.
type RFQHandler struct {
	rfqService *service.RFQService
	logger     *zap.Logger
}

func NewRFQHandler(rfqService *service.RFQService, logger *zap.Logger) *RFQHandler {
	return &RFQHandler{rfqService: rfqService, logger: logger}
}

// Create handles POST /rfqs
func (h *RFQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRFQRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.rfqService.Create(r.Context(), &req, currentUserID(r))
	if err != nil {
		h.logger.Error("failed to create rfq", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// List handles GET /rfqs
func (h *RFQHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.rfqService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list rfqs", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Get handles GET /rfqs/{id}
func (h *RFQHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.rfqService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// GetByWorkOrder handles GET /work-orders/{id}/rfq
func (h *RFQHandler) GetByWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.rfqService.GetByWorkOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Update handles PUT /rfqs/{id} and runs the collection reconciliation
func (h *RFQHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateRFQRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.rfqService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update rfq", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /rfqs/{id}
func (h *RFQHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.rfqService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

package handler

import (
	"net/http"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/service"
	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
	logger           *zap.Logger
}

func NewWorkOrderHandler(workOrderService *service.WorkOrderService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService, logger: logger}
}

// Create handles POST /work-orders
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.workOrderService.Create(r.Context(), &req, currentUserID(r))
	if err != nil {
		h.logger.Error("failed to create work order", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// List handles GET /work-orders
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.workOrderService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list work orders", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Get handles GET /work-orders/{id}
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.workOrderService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Update handles PUT /work-orders/{id}
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateWorkOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.workOrderService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update work order", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /work-orders/{id}
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.workOrderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

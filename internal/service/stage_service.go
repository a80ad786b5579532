package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/mapper"
	"github.com/venturis/worktrack-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// notFound translates gorm's sentinel into the service-level one so handlers
// never import gorm.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// StageService owns the append-only workflow log and the queries derived from
// it: per-work-order history, current stage, the cross-module pending-approval
// inbox and the assigned-work dispatcher.
type StageService struct {
	events     *repository.StageEventRepository
	workOrders *repository.WorkOrderRepository
	salesLeads *repository.SalesLeadRepository
	recos      *repository.TechnicalRecommendationRepository
	rfqs       *repository.RFQRepository
	quotations *repository.QuotationRepository
	logger     *zap.Logger
}

func NewStageService(
	events *repository.StageEventRepository,
	workOrders *repository.WorkOrderRepository,
	salesLeads *repository.SalesLeadRepository,
	recos *repository.TechnicalRecommendationRepository,
	rfqs *repository.RFQRepository,
	quotations *repository.QuotationRepository,
	logger *zap.Logger,
) *StageService {
	return &StageService{
		events:     events,
		workOrders: workOrders,
		salesLeads: salesLeads,
		recos:      recos,
		rfqs:       rfqs,
		quotations: quotations,
		logger:     logger,
	}
}

// Append records a new stage event. The stage name is canonicalized before it
// is stored so the latest-stage queries can filter on exact names. For the
// NAEF stage the work order must already reference an account, since the
// status propagates onto that account row.
func (s *StageService) Append(ctx context.Context, req *domain.AppendStageRequest) (*domain.StageEventDTO, error) {
	wo, err := s.workOrders.GetByID(ctx, req.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order %s: %w", req.WorkOrderID, notFound(err))
	}

	kind := domain.StageKindForEvent(req.StageName)
	if kind == domain.StageKindAccount && wo.AccountID == nil {
		return nil, fmt.Errorf("%w: work order %s has no account for the NAEF stage", ErrInvalidInput, wo.Code)
	}

	event := &domain.StageEvent{
		WorkOrderID: req.WorkOrderID,
		StageName:   kind.StageName(),
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		Notified:    req.Notified,
		Remarks:     req.Remarks,
	}
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Error("failed to append stage event",
			zap.String("workOrderId", req.WorkOrderID.String()),
			zap.String("stageName", event.StageName),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("stage event appended",
		zap.String("workOrderId", req.WorkOrderID.String()),
		zap.String("stageName", event.StageName),
		zap.String("status", event.Status))

	return mapper.ToStageEventDTO(event), nil
}

func (s *StageService) Get(ctx context.Context, id uuid.UUID) (*domain.StageEventDTO, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToStageEventDTO(event), nil
}

func (s *StageService) List(ctx context.Context) ([]domain.StageEventDTO, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToStageEventDTOs(events), nil
}

// History returns a work order's full stage log, newest first.
func (s *StageService) History(ctx context.Context, workOrderID uuid.UUID) ([]domain.StageEventDTO, error) {
	if _, err := s.workOrders.GetByID(ctx, workOrderID); err != nil {
		return nil, fmt.Errorf("work order %s: %w", workOrderID, notFound(err))
	}
	events, err := s.events.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return mapper.ToStageEventDTOs(events), nil
}

// Latest returns the current stage of a work order.
func (s *StageService) Latest(ctx context.Context, workOrderID uuid.UUID) (*domain.StageEventDTO, error) {
	event, err := s.events.LatestByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToStageEventDTO(event), nil
}

// Update mutates the mutable fields of a stage event. A status change
// re-propagates onto the owning module row.
func (s *StageService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateStageRequest) (*domain.StageEventDTO, error) {
	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Notified != nil {
		updates["notified"] = *req.Notified
	}
	if req.Remarks != nil {
		updates["remarks"] = *req.Remarks
	}

	event, err := s.events.Update(ctx, id, updates)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToStageEventDTO(event), nil
}

func (s *StageService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.events.Delete(ctx, id)
}

// inboxStages is the fixed module order of the pending-approval inbox.
var inboxStages = []domain.StageKind{
	domain.StageKindSalesLead,
	domain.StageKindRFQ,
	domain.StageKindTechnicalRecommendation,
	domain.StageKindWorkOrder,
	domain.StageKindAccount,
}

// LatestSubmitted builds the cross-module approval inbox: for every module,
// the work orders whose current stage belongs to that module and sits in
// Submitted status. Each row carries the owning module's own transaction code,
// not just the work order code. The merged result is sorted newest first.
func (s *StageService) LatestSubmitted(ctx context.Context) ([]domain.SubmittedStageDTO, error) {
	var rows []domain.SubmittedStageDTO

	for _, kind := range inboxStages {
		events, err := s.events.LatestSubmittedByStage(ctx, kind.StageName())
		if err != nil {
			return nil, fmt.Errorf("failed to list submitted %s stages: %w", kind, err)
		}
		for i := range events {
			row, err := s.submittedRow(ctx, kind, &events[i])
			if err != nil {
				return nil, err
			}
			rows = append(rows, *row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt > rows[j].CreatedAt
	})
	return rows, nil
}

// submittedRow enriches one inbox event with the owning module's code and the
// work order's account name. A missing module row is tolerated: the event is
// still surfaced with the work order code as its transaction number, because
// hiding a submitted stage is worse than showing it unenriched.
func (s *StageService) submittedRow(ctx context.Context, kind domain.StageKind, event *domain.StageEvent) (*domain.SubmittedStageDTO, error) {
	wo, err := s.workOrders.GetByID(ctx, event.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order %s: %w", event.WorkOrderID, notFound(err))
	}

	row := &domain.SubmittedStageDTO{
		Module:        kind,
		StageID:       event.ID,
		WorkOrderID:   wo.ID,
		WorkOrderCode: wo.Code,
		TransactionNo: wo.Code,
		Status:        event.Status,
		AssignedTo:    event.AssignedTo,
		CreatedAt:     mapper.ToStageEventDTO(event).CreatedAt,
	}
	if wo.Account != nil {
		row.AccountName = wo.Account.Name
	}

	code, err := s.moduleCode(ctx, kind, wo)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Warn("submitted stage has no module row",
			zap.String("module", string(kind)),
			zap.String("workOrderId", wo.ID.String()))
	} else if code != "" {
		row.TransactionNo = code
	}
	return row, nil
}

func (s *StageService) moduleCode(ctx context.Context, kind domain.StageKind, wo *domain.WorkOrder) (string, error) {
	switch kind {
	case domain.StageKindSalesLead:
		lead, err := s.salesLeads.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return "", notFound(err)
		}
		return lead.Code, nil
	case domain.StageKindRFQ:
		rfq, err := s.rfqs.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return "", notFound(err)
		}
		return rfq.Code, nil
	case domain.StageKindTechnicalRecommendation:
		tr, err := s.recos.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return "", notFound(err)
		}
		return tr.Code, nil
	case domain.StageKindQuotation:
		q, err := s.quotations.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return "", notFound(err)
		}
		return q.Code, nil
	case domain.StageKindAccount:
		if wo.Account == nil {
			return "", ErrNotFound
		}
		return wo.Account.Code, nil
	default:
		return wo.Code, nil
	}
}

// LatestAssigned resolves the free-text stage filter and returns the most
// recent item assigned to the user for that module. Work orders are matched in
// Pending status, every other module in Draft, mirroring how each stage parks
// work on an assignee.
func (s *StageService) LatestAssigned(ctx context.Context, userID, stage string) (*domain.AssignedItemDTO, error) {
	kind := domain.ParseStageKind(stage)

	statuses := []string{domain.StageStatusDraft}
	if kind == domain.StageKindWorkOrder {
		statuses = []string{domain.StageStatusPending}
	}

	event, err := s.events.LatestAssigned(ctx, userID, kind.StageName(), statuses)
	if err != nil {
		return nil, notFound(err)
	}

	return s.assignedItem(ctx, kind, userID, event)
}

// assignedItem loads the module row the event points at and flattens it into
// the dispatcher response.
func (s *StageService) assignedItem(ctx context.Context, kind domain.StageKind, userID string, event *domain.StageEvent) (*domain.AssignedItemDTO, error) {
	wo, err := s.workOrders.GetByID(ctx, event.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order %s: %w", event.WorkOrderID, notFound(err))
	}

	item := &domain.AssignedItemDTO{
		Module:        kind,
		ID:            wo.ID,
		Code:          wo.Code,
		WorkOrderID:   wo.ID,
		WorkOrderCode: wo.Code,
		Description:   wo.Description,
		StageStatus:   event.Status,
		AssignedTo:    userID,
		CreatedAt:     mapper.ToStageEventDTO(event).CreatedAt,
	}
	if wo.Account != nil {
		item.AccountName = wo.Account.Name
	}

	switch kind {
	case domain.StageKindSalesLead:
		lead, err := s.salesLeads.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return nil, notFound(err)
		}
		item.ID = lead.ID
		item.Code = lead.Code
		item.Brand = lead.Brand
		if lead.Description != "" {
			item.Description = lead.Description
		}
	case domain.StageKindTechnicalRecommendation:
		tr, err := s.recos.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return nil, notFound(err)
		}
		item.ID = tr.ID
		item.Code = tr.Code
		if tr.Summary != "" {
			item.Description = tr.Summary
		}
	case domain.StageKindRFQ:
		rfq, err := s.rfqs.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return nil, notFound(err)
		}
		item.ID = rfq.ID
		item.Code = rfq.Code
		if rfq.Notes != "" {
			item.Description = rfq.Notes
		}
	case domain.StageKindQuotation:
		q, err := s.quotations.GetByWorkOrder(ctx, wo.ID)
		if err != nil {
			return nil, notFound(err)
		}
		item.ID = q.ID
		item.Code = q.Code
	}

	return item, nil
}

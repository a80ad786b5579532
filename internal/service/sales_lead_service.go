package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/mapper"
	"github.com/venturis/worktrack-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SalesLeadService manages the sales-lead stage. Creation stamps an FSL code
// and moves the work order into the "Sales Lead" stage in Draft.
type SalesLeadService struct {
	db         *gorm.DB
	salesLeads *repository.SalesLeadRepository
	workOrders *repository.WorkOrderRepository
	sequences  *SequenceService
	logger     *zap.Logger
}

func NewSalesLeadService(
	db *gorm.DB,
	salesLeads *repository.SalesLeadRepository,
	workOrders *repository.WorkOrderRepository,
	sequences *SequenceService,
	logger *zap.Logger,
) *SalesLeadService {
	return &SalesLeadService{
		db:         db,
		salesLeads: salesLeads,
		workOrders: workOrders,
		sequences:  sequences,
		logger:     logger,
	}
}

func (s *SalesLeadService) Create(ctx context.Context, req *domain.CreateSalesLeadRequest, createdBy string) (*domain.SalesLeadDTO, error) {
	wo, err := s.workOrders.GetByID(ctx, req.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order %s: %w", req.WorkOrderID, notFound(err))
	}

	assignee := req.AssignedTo
	if assignee == "" {
		assignee = createdBy
	}
	// A lead inherits the work order's account unless the payload overrides it.
	accountID := req.AccountID
	if accountID == nil {
		accountID = wo.AccountID
	}

	var lead *domain.SalesLead
	err = WithConflictRetry(ctx, s.logger, createRetries, func() error {
		code, err := s.sequences.NextCode(ctx, domain.StageKindSalesLead)
		if err != nil {
			return err
		}
		lead = &domain.SalesLead{
			Code:        code,
			WorkOrderID: req.WorkOrderID,
			AccountID:   accountID,
			Brand:       req.Brand,
			Description: req.Description,
			AssignedTo:  assignee,
			StageStatus: domain.StageStatusDraft,
			CreatedBy:   createdBy,
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(lead).Error; err != nil {
				return err
			}
			return repository.AppendStageEventTx(tx, &domain.StageEvent{
				WorkOrderID: req.WorkOrderID,
				StageName:   domain.StageNameSalesLead,
				Status:      domain.StageStatusDraft,
				AssignedTo:  &assignee,
			})
		})
	})
	if err != nil {
		s.logger.Error("failed to create sales lead", zap.Error(err))
		return nil, err
	}

	s.logger.Info("sales lead created",
		zap.String("id", lead.ID.String()),
		zap.String("code", lead.Code),
		zap.String("workOrderId", req.WorkOrderID.String()))

	return s.Get(ctx, lead.ID)
}

func (s *SalesLeadService) Get(ctx context.Context, id uuid.UUID) (*domain.SalesLeadDTO, error) {
	lead, err := s.salesLeads.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToSalesLeadDTO(lead), nil
}

func (s *SalesLeadService) List(ctx context.Context) ([]domain.SalesLeadDTO, error) {
	leads, err := s.salesLeads.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToSalesLeadDTOs(leads), nil
}

func (s *SalesLeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSalesLeadRequest) (*domain.SalesLeadDTO, error) {
	lead, err := s.salesLeads.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.AccountID != nil {
		lead.AccountID = req.AccountID
	}
	if req.Brand != nil {
		lead.Brand = *req.Brand
	}
	if req.Description != nil {
		lead.Description = *req.Description
	}
	if req.AssignedTo != nil {
		lead.AssignedTo = *req.AssignedTo
	}

	if err := s.salesLeads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SalesLeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.salesLeads.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.salesLeads.Delete(ctx, id)
}

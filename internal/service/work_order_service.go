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

const createRetries = 3

// WorkOrderService manages the intake module. A new work order gets a WO code
// and an initial "Work Order" stage event in Pending status, parked on its
// assignee.
type WorkOrderService struct {
	db         *gorm.DB
	workOrders *repository.WorkOrderRepository
	accounts   *repository.AccountRepository
	sequences  *SequenceService
	logger     *zap.Logger
}

func NewWorkOrderService(
	db *gorm.DB,
	workOrders *repository.WorkOrderRepository,
	accounts *repository.AccountRepository,
	sequences *SequenceService,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		db:         db,
		workOrders: workOrders,
		accounts:   accounts,
		sequences:  sequences,
		logger:     logger,
	}
}

func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest, createdBy string) (*domain.WorkOrderDTO, error) {
	if req.AccountID != nil {
		if _, err := s.accounts.GetByID(ctx, *req.AccountID); err != nil {
			return nil, fmt.Errorf("account %s: %w", req.AccountID, notFound(err))
		}
	}

	assignee := req.AssignedTo
	if assignee == "" {
		assignee = createdBy
	}

	var wo *domain.WorkOrder
	err := WithConflictRetry(ctx, s.logger, createRetries, func() error {
		code, err := s.sequences.NextCode(ctx, domain.StageKindWorkOrder)
		if err != nil {
			return err
		}
		wo = &domain.WorkOrder{
			Code:        code,
			Description: req.Description,
			AssignedTo:  assignee,
			StageStatus: domain.StageStatusPending,
			AccountID:   req.AccountID,
			CreatedBy:   createdBy,
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(wo).Error; err != nil {
				return err
			}
			return repository.AppendStageEventTx(tx, &domain.StageEvent{
				WorkOrderID: wo.ID,
				StageName:   domain.StageNameWorkOrder,
				Status:      domain.StageStatusPending,
				AssignedTo:  &assignee,
			})
		})
	})
	if err != nil {
		s.logger.Error("failed to create work order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("work order created",
		zap.String("id", wo.ID.String()),
		zap.String("code", wo.Code))

	return s.Get(ctx, wo.ID)
}

func (s *WorkOrderService) Get(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	wo, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToWorkOrderDTO(wo), nil
}

func (s *WorkOrderService) List(ctx context.Context) ([]domain.WorkOrderDTO, error) {
	orders, err := s.workOrders.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToWorkOrderDTOs(orders), nil
}

func (s *WorkOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	wo, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Description != nil {
		wo.Description = *req.Description
	}
	if req.AssignedTo != nil {
		wo.AssignedTo = *req.AssignedTo
	}
	if req.AccountID != nil {
		if _, err := s.accounts.GetByID(ctx, *req.AccountID); err != nil {
			return nil, fmt.Errorf("account %s: %w", req.AccountID, notFound(err))
		}
		wo.AccountID = req.AccountID
	}

	if err := s.workOrders.Update(ctx, wo); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *WorkOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.workOrders.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.workOrders.Delete(ctx, id)
}

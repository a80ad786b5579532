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

// TechnicalRecommendationService manages the TR stage.
type TechnicalRecommendationService struct {
	db         *gorm.DB
	recos      *repository.TechnicalRecommendationRepository
	salesLeads *repository.SalesLeadRepository
	workOrders *repository.WorkOrderRepository
	sequences  *SequenceService
	logger     *zap.Logger
}

func NewTechnicalRecommendationService(
	db *gorm.DB,
	recos *repository.TechnicalRecommendationRepository,
	salesLeads *repository.SalesLeadRepository,
	workOrders *repository.WorkOrderRepository,
	sequences *SequenceService,
	logger *zap.Logger,
) *TechnicalRecommendationService {
	return &TechnicalRecommendationService{
		db:         db,
		recos:      recos,
		salesLeads: salesLeads,
		workOrders: workOrders,
		sequences:  sequences,
		logger:     logger,
	}
}

func (s *TechnicalRecommendationService) Create(ctx context.Context, req *domain.CreateTechnicalRecommendationRequest, createdBy string) (*domain.TechnicalRecommendationDTO, error) {
	if _, err := s.workOrders.GetByID(ctx, req.WorkOrderID); err != nil {
		return nil, fmt.Errorf("work order %s: %w", req.WorkOrderID, notFound(err))
	}
	if req.SalesLeadID != nil {
		if _, err := s.salesLeads.GetByID(ctx, *req.SalesLeadID); err != nil {
			return nil, fmt.Errorf("sales lead %s: %w", req.SalesLeadID, notFound(err))
		}
	}

	assignee := req.AssignedTo
	if assignee == "" {
		assignee = createdBy
	}

	var tr *domain.TechnicalRecommendation
	err := WithConflictRetry(ctx, s.logger, createRetries, func() error {
		code, err := s.sequences.NextCode(ctx, domain.StageKindTechnicalRecommendation)
		if err != nil {
			return err
		}
		tr = &domain.TechnicalRecommendation{
			Code:        code,
			WorkOrderID: req.WorkOrderID,
			SalesLeadID: req.SalesLeadID,
			Summary:     req.Summary,
			AssignedTo:  assignee,
			StageStatus: domain.StageStatusDraft,
			CreatedBy:   createdBy,
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(tr).Error; err != nil {
				return err
			}
			return repository.AppendStageEventTx(tx, &domain.StageEvent{
				WorkOrderID: req.WorkOrderID,
				StageName:   domain.StageNameTechnicalRecommendation,
				Status:      domain.StageStatusDraft,
				AssignedTo:  &assignee,
			})
		})
	})
	if err != nil {
		s.logger.Error("failed to create technical recommendation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("technical recommendation created",
		zap.String("id", tr.ID.String()),
		zap.String("code", tr.Code),
		zap.String("workOrderId", req.WorkOrderID.String()))

	return s.Get(ctx, tr.ID)
}

func (s *TechnicalRecommendationService) Get(ctx context.Context, id uuid.UUID) (*domain.TechnicalRecommendationDTO, error) {
	tr, err := s.recos.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToTechnicalRecommendationDTO(tr), nil
}

func (s *TechnicalRecommendationService) List(ctx context.Context) ([]domain.TechnicalRecommendationDTO, error) {
	trs, err := s.recos.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToTechnicalRecommendationDTOs(trs), nil
}

func (s *TechnicalRecommendationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTechnicalRecommendationRequest) (*domain.TechnicalRecommendationDTO, error) {
	tr, err := s.recos.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.SalesLeadID != nil {
		if _, err := s.salesLeads.GetByID(ctx, *req.SalesLeadID); err != nil {
			return nil, fmt.Errorf("sales lead %s: %w", req.SalesLeadID, notFound(err))
		}
		tr.SalesLeadID = req.SalesLeadID
	}
	if req.Summary != nil {
		tr.Summary = *req.Summary
	}
	if req.AssignedTo != nil {
		tr.AssignedTo = *req.AssignedTo
	}

	if err := s.recos.Update(ctx, tr); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *TechnicalRecommendationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.recos.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.recos.Delete(ctx, id)
}

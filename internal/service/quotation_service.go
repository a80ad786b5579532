package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/mapper"
	"github.com/venturis/worktrack-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuotationService manages the final stage. A quotation must trace back to
// either an RFQ or a technical recommendation on the same work order; when the
// payload names neither, the service tries to resolve them from the work order
// before rejecting the request.
type QuotationService struct {
	db         *gorm.DB
	quotations *repository.QuotationRepository
	rfqs       *repository.RFQRepository
	recos      *repository.TechnicalRecommendationRepository
	workOrders *repository.WorkOrderRepository
	sequences  *SequenceService
	logger     *zap.Logger
}

func NewQuotationService(
	db *gorm.DB,
	quotations *repository.QuotationRepository,
	rfqs *repository.RFQRepository,
	recos *repository.TechnicalRecommendationRepository,
	workOrders *repository.WorkOrderRepository,
	sequences *SequenceService,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		db:         db,
		quotations: quotations,
		rfqs:       rfqs,
		recos:      recos,
		workOrders: workOrders,
		sequences:  sequences,
		logger:     logger,
	}
}

// resolveSource settles the RFQ / TR references for a new quotation. Explicit
// ids are verified against the work order; absent ids fall back to the work
// order's own RFQ or TR. A work order with neither cannot be quoted.
func (s *QuotationService) resolveSource(ctx context.Context, req *domain.CreateQuotationRequest) (rfqID, trID *uuid.UUID, err error) {
	if req.RFQID != nil {
		rfq, err := s.rfqs.GetByID(ctx, *req.RFQID)
		if err != nil {
			return nil, nil, fmt.Errorf("rfq %s: %w", req.RFQID, notFound(err))
		}
		if rfq.WorkOrderID != req.WorkOrderID {
			return nil, nil, fmt.Errorf("%w: rfq %s belongs to another work order", ErrInvalidInput, rfq.Code)
		}
		rfqID = req.RFQID
	}
	if req.TRID != nil {
		tr, err := s.recos.GetByID(ctx, *req.TRID)
		if err != nil {
			return nil, nil, fmt.Errorf("tr %s: %w", req.TRID, notFound(err))
		}
		if tr.WorkOrderID != req.WorkOrderID {
			return nil, nil, fmt.Errorf("%w: technical recommendation %s belongs to another work order", ErrInvalidInput, tr.Code)
		}
		trID = req.TRID
	}
	if rfqID != nil || trID != nil {
		return rfqID, trID, nil
	}

	if rfq, err := s.rfqs.GetByWorkOrder(ctx, req.WorkOrderID); err == nil {
		id := rfq.ID
		rfqID = &id
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if tr, err := s.recos.GetByWorkOrder(ctx, req.WorkOrderID); err == nil {
		id := tr.ID
		trID = &id
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	if rfqID == nil && trID == nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("a quotation requires an RFQ or a technical recommendation", "rfqId", "trId"))
	}
	return rfqID, trID, nil
}

func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest, createdBy string) (*domain.QuotationDTO, error) {
	if _, err := s.workOrders.GetByID(ctx, req.WorkOrderID); err != nil {
		return nil, fmt.Errorf("work order %s: %w", req.WorkOrderID, notFound(err))
	}

	rfqID, trID, err := s.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}

	assignee := req.AssignedTo
	if assignee == "" {
		assignee = createdBy
	}

	var quotation *domain.Quotation
	err = WithConflictRetry(ctx, s.logger, createRetries, func() error {
		code, err := s.sequences.NextCode(ctx, domain.StageKindQuotation)
		if err != nil {
			return err
		}
		quotation = &domain.Quotation{
			Code:                      code,
			WorkOrderID:               req.WorkOrderID,
			RFQID:                     rfqID,
			TechnicalRecommendationID: trID,
			TotalAmount:               req.TotalAmount,
			ValidUntil:                req.ValidUntil,
			AssignedTo:                assignee,
			StageStatus:               domain.StageStatusDraft,
			CreatedBy:                 createdBy,
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(quotation).Error; err != nil {
				return err
			}
			return repository.AppendStageEventTx(tx, &domain.StageEvent{
				WorkOrderID: req.WorkOrderID,
				StageName:   domain.StageNameQuotation,
				Status:      domain.StageStatusDraft,
				AssignedTo:  &assignee,
			})
		})
	})
	if err != nil {
		s.logger.Error("failed to create quotation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("quotation created",
		zap.String("id", quotation.ID.String()),
		zap.String("code", quotation.Code),
		zap.String("workOrderId", req.WorkOrderID.String()))

	return s.Get(ctx, quotation.ID)
}

func (s *QuotationService) Get(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToQuotationDTO(quotation), nil
}

func (s *QuotationService) List(ctx context.Context) ([]domain.QuotationDTO, error) {
	quotations, err := s.quotations.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToQuotationDTOs(quotations), nil
}

func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.TotalAmount != nil {
		quotation.TotalAmount = *req.TotalAmount
	}
	if req.ValidUntil != nil {
		quotation.ValidUntil = req.ValidUntil
	}
	if req.AssignedTo != nil {
		quotation.AssignedTo = *req.AssignedTo
	}

	if err := s.quotations.Update(ctx, quotation); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.quotations.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.quotations.Delete(ctx, id)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
)

type SalesLeadRepository struct {
	db *gorm.DB
}

func NewSalesLeadRepository(db *gorm.DB) *SalesLeadRepository {
	return &SalesLeadRepository{db: db}
}

func (r *SalesLeadRepository) Create(ctx context.Context, lead *domain.SalesLead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *SalesLeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesLead, error) {
	var lead domain.SalesLead
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Preload("Account").
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetByWorkOrder returns the lead opened for a work order, or
// gorm.ErrRecordNotFound when the work order never reached this stage.
func (r *SalesLeadRepository) GetByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.SalesLead, error) {
	var lead domain.SalesLead
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Preload("Account").
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *SalesLeadRepository) List(ctx context.Context) ([]domain.SalesLead, error) {
	var leads []domain.SalesLead
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Preload("Account").
		Order("created_at DESC").
		Find(&leads).Error
	return leads, err
}

func (r *SalesLeadRepository) Update(ctx context.Context, lead *domain.SalesLead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *SalesLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.SalesLead{}, "id = ?", id).Error
}

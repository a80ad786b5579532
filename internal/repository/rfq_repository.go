package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
)

type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) *RFQRepository {
	return &RFQRepository{db: db}
}

func (r *RFQRepository) Create(ctx context.Context, rfq *domain.RFQ) error {
	return r.db.WithContext(ctx).Create(rfq).Error
}

// GetByID loads an RFQ with its three child collections.
func (r *RFQRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RFQ, error) {
	var rfq domain.RFQ
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Preload("Items").
		Preload("Vendors").
		Preload("Vendors.Vendor").
		Preload("Quotes").
		First(&rfq, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

func (r *RFQRepository) GetByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.RFQ, error) {
	var rfq domain.RFQ
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Preload("Items").
		Preload("Vendors").
		Preload("Vendors.Vendor").
		Preload("Quotes").
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		First(&rfq).Error
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

func (r *RFQRepository) List(ctx context.Context) ([]domain.RFQ, error) {
	var rfqs []domain.RFQ
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Preload("Items").
		Preload("Vendors").
		Preload("Quotes").
		Order("created_at DESC").
		Find(&rfqs).Error
	return rfqs, err
}

func (r *RFQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.RFQ{}, "id = ?", id).Error
}

// WithTransaction runs fn inside one database transaction. The RFQ update
// path (scalar update + three-collection reconciliation + stage append) uses
// it so the caller never observes a half-reconciled RFQ.
func (r *RFQRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

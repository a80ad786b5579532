package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Account").
		First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) List(ctx context.Context) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Account").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *WorkOrderRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *WorkOrderRepository) Update(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Save(wo).Error
}

func (r *WorkOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkOrder{}, "id = ?", id).Error
}

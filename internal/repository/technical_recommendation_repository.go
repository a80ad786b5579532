package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
)

type TechnicalRecommendationRepository struct {
	db *gorm.DB
}

func NewTechnicalRecommendationRepository(db *gorm.DB) *TechnicalRecommendationRepository {
	return &TechnicalRecommendationRepository{db: db}
}

func (r *TechnicalRecommendationRepository) Create(ctx context.Context, tr *domain.TechnicalRecommendation) error {
	return r.db.WithContext(ctx).Create(tr).Error
}

func (r *TechnicalRecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TechnicalRecommendation, error) {
	var tr domain.TechnicalRecommendation
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		First(&tr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *TechnicalRecommendationRepository) GetByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.TechnicalRecommendation, error) {
	var tr domain.TechnicalRecommendation
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		First(&tr).Error
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *TechnicalRecommendationRepository) List(ctx context.Context) ([]domain.TechnicalRecommendation, error) {
	var trs []domain.TechnicalRecommendation
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Order("created_at DESC").
		Find(&trs).Error
	return trs, err
}

func (r *TechnicalRecommendationRepository) Update(ctx context.Context, tr *domain.TechnicalRecommendation) error {
	return r.db.WithContext(ctx).Save(tr).Error
}

func (r *TechnicalRecommendationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TechnicalRecommendation{}, "id = ?", id).Error
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
)

// LookupRepository serves the vendor registry and item catalog rows used to
// enrich RFQ responses with names.
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// VendorsByIDs returns the vendors for the given ids, keyed by id.
func (r *LookupRepository) VendorsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Vendor, error) {
	out := make(map[uuid.UUID]domain.Vendor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var vendors []domain.Vendor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error; err != nil {
		return nil, err
	}
	for _, v := range vendors {
		out[v.ID] = v
	}
	return out, nil
}

// CatalogItemsByIDs returns the catalog items for the given ids, keyed by id.
func (r *LookupRepository) CatalogItemsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.CatalogItem, error) {
	out := make(map[uuid.UUID]domain.CatalogItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []domain.CatalogItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

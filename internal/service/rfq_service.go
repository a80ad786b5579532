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

// RFQService manages the request-for-quote stage. Updates are desired-state:
// the payload carries the complete intended items/vendors/quotes collections
// and the service reconciles the persisted rows against them by natural key
// in one transaction.
type RFQService struct {
	db         *gorm.DB
	rfqs       *repository.RFQRepository
	workOrders *repository.WorkOrderRepository
	lookups    *repository.LookupRepository
	sequences  *SequenceService
	logger     *zap.Logger
}

func NewRFQService(
	db *gorm.DB,
	rfqs *repository.RFQRepository,
	workOrders *repository.WorkOrderRepository,
	lookups *repository.LookupRepository,
	sequences *SequenceService,
	logger *zap.Logger,
) *RFQService {
	return &RFQService{
		db:         db,
		rfqs:       rfqs,
		workOrders: workOrders,
		lookups:    lookups,
		sequences:  sequences,
		logger:     logger,
	}
}

func (s *RFQService) Create(ctx context.Context, req *domain.CreateRFQRequest, createdBy string) (*domain.RFQDTO, error) {
	if _, err := s.workOrders.GetByID(ctx, req.WorkOrderID); err != nil {
		return nil, fmt.Errorf("work order %s: %w", req.WorkOrderID, notFound(err))
	}

	assignee := req.AssignedTo
	if assignee == "" {
		assignee = createdBy
	}

	// Running the incoming collections through the same diff as an update
	// dedupes repeated references and drops entries with no usable id.
	itemDiff := diffByKey(nil, req.Items,
		func(p domain.RFQItem) uuid.UUID { return p.ItemID },
		func(in domain.RFQItemInput) uuid.UUID { return in.NormalizeItemID() })
	vendorDiff := diffByKey(nil, req.Vendors,
		func(p domain.RFQVendor) uuid.UUID { return p.VendorID },
		func(in domain.RFQVendorInput) uuid.UUID { return in.NormalizeVendorID() })

	var rfq *domain.RFQ
	err := WithConflictRetry(ctx, s.logger, createRetries, func() error {
		code, err := s.sequences.NextCode(ctx, domain.StageKindRFQ)
		if err != nil {
			return err
		}
		rfq = &domain.RFQ{
			Code:                      code,
			WorkOrderID:               req.WorkOrderID,
			TechnicalRecommendationID: req.TechnicalRecommendationID,
			Notes:                     req.Notes,
			AssignedTo:                assignee,
			StageStatus:               domain.StageStatusDraft,
			CreatedBy:                 createdBy,
		}
		for _, in := range itemDiff.inserts {
			rfq.Items = append(rfq.Items, newRFQItem(uuid.Nil, &in))
		}
		for _, in := range vendorDiff.inserts {
			rfq.Vendors = append(rfq.Vendors, newRFQVendor(uuid.Nil, &in))
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(rfq).Error; err != nil {
				return err
			}
			return repository.AppendStageEventTx(tx, &domain.StageEvent{
				WorkOrderID: req.WorkOrderID,
				StageName:   domain.StageNameRFQ,
				Status:      domain.StageStatusDraft,
				AssignedTo:  &assignee,
			})
		})
	})
	if err != nil {
		s.logger.Error("failed to create rfq", zap.Error(err))
		return nil, err
	}

	s.logger.Info("rfq created",
		zap.String("id", rfq.ID.String()),
		zap.String("code", rfq.Code),
		zap.String("workOrderId", req.WorkOrderID.String()))

	return s.Get(ctx, rfq.ID)
}

func (s *RFQService) Get(ctx context.Context, id uuid.UUID) (*domain.RFQDTO, error) {
	rfq, err := s.rfqs.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s.toDTO(ctx, rfq)
}

func (s *RFQService) GetByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.RFQDTO, error) {
	rfq, err := s.rfqs.GetByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err)
	}
	return s.toDTO(ctx, rfq)
}

func (s *RFQService) List(ctx context.Context) ([]domain.RFQDTO, error) {
	rfqs, err := s.rfqs.List(ctx)
	if err != nil {
		return nil, err
	}

	var itemIDs, vendorIDs []uuid.UUID
	for i := range rfqs {
		for j := range rfqs[i].Items {
			itemIDs = append(itemIDs, rfqs[i].Items[j].ItemID)
		}
		for j := range rfqs[i].Vendors {
			vendorIDs = append(vendorIDs, rfqs[i].Vendors[j].VendorID)
		}
	}
	items, err := s.lookups.CatalogItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	vendors, err := s.lookups.VendorsByIDs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.RFQDTO, len(rfqs))
	for i := range rfqs {
		dtos[i] = *mapper.ToRFQDTO(&rfqs[i], items, vendors)
	}
	return dtos, nil
}

// Update applies a desired-state payload in one transaction: scalar fields,
// then the three collection reconciliations, then the selected-quote
// projection onto item prices, and finally an optional stage event when the
// payload carries a stageStatus. Submitting the same payload twice is a no-op
// for the collections.
func (s *RFQService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateRFQRequest) (*domain.RFQDTO, error) {
	err := s.rfqs.WithTransaction(ctx, func(tx *gorm.DB) error {
		var rfq domain.RFQ
		if err := tx.Preload("Items").Preload("Vendors").Preload("Quotes").
			First(&rfq, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		scalars := map[string]interface{}{}
		if req.Notes != nil {
			scalars["notes"] = *req.Notes
		}
		if req.AssignedTo != nil {
			scalars["assigned_to"] = *req.AssignedTo
		}
		if len(scalars) > 0 {
			if err := tx.Model(&domain.RFQ{}).Where("id = ?", id).Updates(scalars).Error; err != nil {
				return fmt.Errorf("failed to update rfq: %w", err)
			}
		}

		if err := s.reconcileItems(tx, &rfq, req.Items); err != nil {
			return err
		}
		if err := s.reconcileVendors(tx, &rfq, req.Vendors); err != nil {
			return err
		}
		if err := s.reconcileQuotes(tx, &rfq, req); err != nil {
			return err
		}
		if err := projectSelectedQuotes(tx, id); err != nil {
			return err
		}

		if req.StageStatus != nil {
			assignee := rfq.AssignedTo
			if req.AssignedTo != nil {
				assignee = *req.AssignedTo
			}
			event := &domain.StageEvent{
				WorkOrderID: rfq.WorkOrderID,
				StageName:   domain.StageNameRFQ,
				Status:      *req.StageStatus,
			}
			if assignee != "" {
				event.AssignedTo = &assignee
			}
			if err := repository.AppendStageEventTx(tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rfq reconciled", zap.String("id", id.String()))
	return s.Get(ctx, id)
}

func (s *RFQService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.rfqs.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.rfqs.Delete(ctx, id)
}

func newRFQItem(rfqID uuid.UUID, in *domain.RFQItemInput) domain.RFQItem {
	return domain.RFQItem{
		RFQID:       rfqID,
		ItemID:      in.NormalizeItemID(),
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Amount:      in.Quantity * in.UnitPrice,
		LeadTime:    in.LeadTime,
	}
}

func newRFQVendor(rfqID uuid.UUID, in *domain.RFQVendorInput) domain.RFQVendor {
	return domain.RFQVendor{
		RFQID:         rfqID,
		VendorID:      in.NormalizeVendorID(),
		ContactPerson: in.ContactPerson,
		PaymentTerms:  in.PaymentTerms,
	}
}

func (s *RFQService) reconcileItems(tx *gorm.DB, rfq *domain.RFQ, incoming []domain.RFQItemInput) error {
	d := diffByKey(rfq.Items, incoming,
		func(p domain.RFQItem) uuid.UUID { return p.ItemID },
		func(in domain.RFQItemInput) uuid.UUID { return in.NormalizeItemID() })

	for _, p := range d.deletes {
		if err := tx.Delete(&domain.RFQItem{}, "id = ?", p.ID).Error; err != nil {
			return fmt.Errorf("failed to delete rfq item: %w", err)
		}
		// Quotes for a removed item have nothing to attach to anymore.
		if err := tx.Where("rfq_id = ? AND item_id = ?", rfq.ID, p.ItemID).
			Delete(&domain.RFQItemVendorQuote{}).Error; err != nil {
			return fmt.Errorf("failed to delete orphaned quotes: %w", err)
		}
	}
	for _, u := range d.updates {
		updates := map[string]interface{}{
			"description": u.incoming.Description,
			"quantity":    u.incoming.Quantity,
			"unit_price":  u.incoming.UnitPrice,
			"amount":      u.incoming.Quantity * u.incoming.UnitPrice,
			"lead_time":   u.incoming.LeadTime,
		}
		if err := tx.Model(&domain.RFQItem{}).Where("id = ?", u.persisted.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update rfq item: %w", err)
		}
	}
	for _, in := range d.inserts {
		item := newRFQItem(rfq.ID, &in)
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to insert rfq item: %w", err)
		}
	}
	return nil
}

func (s *RFQService) reconcileVendors(tx *gorm.DB, rfq *domain.RFQ, incoming []domain.RFQVendorInput) error {
	d := diffByKey(rfq.Vendors, incoming,
		func(p domain.RFQVendor) uuid.UUID { return p.VendorID },
		func(in domain.RFQVendorInput) uuid.UUID { return in.NormalizeVendorID() })

	for _, p := range d.deletes {
		if err := tx.Delete(&domain.RFQVendor{}, "id = ?", p.ID).Error; err != nil {
			return fmt.Errorf("failed to delete rfq vendor: %w", err)
		}
		if err := tx.Where("rfq_id = ? AND vendor_id = ?", rfq.ID, p.VendorID).
			Delete(&domain.RFQItemVendorQuote{}).Error; err != nil {
			return fmt.Errorf("failed to delete orphaned quotes: %w", err)
		}
	}
	for _, u := range d.updates {
		updates := map[string]interface{}{
			"contact_person": u.incoming.ContactPerson,
			"payment_terms":  u.incoming.PaymentTerms,
		}
		if err := tx.Model(&domain.RFQVendor{}).Where("id = ?", u.persisted.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update rfq vendor: %w", err)
		}
	}
	for _, in := range d.inserts {
		vendor := newRFQVendor(rfq.ID, &in)
		if err := tx.Create(&vendor).Error; err != nil {
			return fmt.Errorf("failed to insert rfq vendor: %w", err)
		}
	}
	return nil
}

// flattenQuotes merges the top-level quotes with the quotes nested under each
// vendor input, normalizing all alias references. A nested quote inherits its
// vendor's id when it does not carry one itself. Quotes missing either side of
// the (vendor, item) key are dropped.
func flattenQuotes(req *domain.UpdateRFQRequest) []domain.RFQItemVendorQuote {
	var out []domain.RFQItemVendorQuote

	add := func(in *domain.RFQQuoteInput, fallbackVendor uuid.UUID) {
		vendorID := in.NormalizeVendorID()
		if vendorID == uuid.Nil {
			vendorID = fallbackVendor
		}
		itemID := in.NormalizeItemID()
		if vendorID == uuid.Nil || itemID == uuid.Nil {
			return
		}
		out = append(out, domain.RFQItemVendorQuote{
			ItemID:     itemID,
			VendorID:   vendorID,
			UnitPrice:  in.UnitPrice,
			LeadTime:   in.LeadTime,
			IsSelected: in.IsSelected,
			Notes:      in.Notes,
		})
	}

	for i := range req.Quotes {
		add(&req.Quotes[i], uuid.Nil)
	}
	for i := range req.Vendors {
		vendorID := req.Vendors[i].NormalizeVendorID()
		for j := range req.Vendors[i].Quotes {
			add(&req.Vendors[i].Quotes[j], vendorID)
		}
	}
	return out
}

func (s *RFQService) reconcileQuotes(tx *gorm.DB, rfq *domain.RFQ, req *domain.UpdateRFQRequest) error {
	incoming := flattenQuotes(req)

	d := diffByKey(rfq.Quotes, incoming,
		func(p domain.RFQItemVendorQuote) domain.QuoteKey { return p.Key() },
		func(in domain.RFQItemVendorQuote) domain.QuoteKey { return in.Key() })

	for _, p := range d.deletes {
		if err := tx.Delete(&domain.RFQItemVendorQuote{}, "id = ?", p.ID).Error; err != nil {
			return fmt.Errorf("failed to delete quote: %w", err)
		}
	}
	for _, u := range d.updates {
		updates := map[string]interface{}{
			"unit_price":  u.incoming.UnitPrice,
			"lead_time":   u.incoming.LeadTime,
			"is_selected": u.incoming.IsSelected,
			"notes":       u.incoming.Notes,
		}
		if err := tx.Model(&domain.RFQItemVendorQuote{}).Where("id = ?", u.persisted.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
	}
	for _, in := range d.inserts {
		quote := in
		quote.RFQID = rfq.ID
		if err := tx.Create(&quote).Error; err != nil {
			return fmt.Errorf("failed to insert quote: %w", err)
		}
	}
	return nil
}

// projectSelectedQuotes copies each selected quote's unit price and lead time
// onto its item row and recomputes the amount. Items without a selected quote
// keep their stored values.
func projectSelectedQuotes(tx *gorm.DB, rfqID uuid.UUID) error {
	var selected []domain.RFQItemVendorQuote
	if err := tx.Where("rfq_id = ? AND is_selected = ?", rfqID, true).Find(&selected).Error; err != nil {
		return fmt.Errorf("failed to load selected quotes: %w", err)
	}
	if len(selected) == 0 {
		return nil
	}
	byItem := make(map[uuid.UUID]*domain.RFQItemVendorQuote, len(selected))
	for i := range selected {
		byItem[selected[i].ItemID] = &selected[i]
	}

	var items []domain.RFQItem
	if err := tx.Where("rfq_id = ?", rfqID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load rfq items: %w", err)
	}
	for i := range items {
		q, ok := byItem[items[i].ItemID]
		if !ok {
			continue
		}
		updates := map[string]interface{}{
			"unit_price": q.UnitPrice,
			"lead_time":  q.LeadTime,
			"amount":     q.UnitPrice * items[i].Quantity,
		}
		if err := tx.Model(&domain.RFQItem{}).Where("id = ?", items[i].ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to project selected quote: %w", err)
		}
	}
	return nil
}

func (s *RFQService) toDTO(ctx context.Context, rfq *domain.RFQ) (*domain.RFQDTO, error) {
	itemIDs := make([]uuid.UUID, 0, len(rfq.Items))
	for i := range rfq.Items {
		itemIDs = append(itemIDs, rfq.Items[i].ItemID)
	}
	vendorIDs := make([]uuid.UUID, 0, len(rfq.Vendors))
	for i := range rfq.Vendors {
		vendorIDs = append(vendorIDs, rfq.Vendors[i].VendorID)
	}
	items, err := s.lookups.CatalogItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	vendors, err := s.lookups.VendorsByIDs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}
	return mapper.ToRFQDTO(rfq, items, vendors), nil
}

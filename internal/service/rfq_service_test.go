package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/repository"
	"github.com/venturis/worktrack-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRFQService(t *testing.T) (*RFQService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	sequences := NewSequenceService(repository.NewNumberSequenceRepository(db), zap.NewNop())
	svc := NewRFQService(
		db,
		repository.NewRFQRepository(db),
		repository.NewWorkOrderRepository(db),
		repository.NewLookupRepository(db),
		sequences,
		zap.NewNop(),
	)
	return svc, db
}

func itemInput(id uuid.UUID, qty, price float64) domain.RFQItemInput {
	return domain.RFQItemInput{ItemID: &id, Quantity: qty, UnitPrice: price}
}

func vendorInput(id uuid.UUID) domain.RFQVendorInput {
	return domain.RFQVendorInput{VendorID: &id}
}

func TestRFQService_Create(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "sourcing round", nil)
	itemA := uuid.New()
	vendorX := uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Notes:       "three week deadline",
		Items: []domain.RFQItemInput{
			itemInput(itemA, 4, 25),
			itemInput(itemA, 4, 25), // duplicate reference collapses
			{Description: "no item id, dropped"},
		},
		Vendors: []domain.RFQVendorInput{vendorInput(vendorX)},
	}, "frank")
	require.NoError(t, err)

	assert.Contains(t, dto.Code, "RFQ-")
	assert.Equal(t, "frank", dto.AssignedTo)
	assert.Equal(t, domain.StageStatusDraft, dto.StageStatus)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, float64(100), dto.Items[0].Amount, "amount = quantity * unit price")
	require.Len(t, dto.Vendors, 1)

	// creation moves the work order into the RFQ stage
	var events []domain.StageEvent
	require.NoError(t, db.Where("work_order_id = ?", wo.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StageNameRFQ, events[0].StageName)
	assert.Equal(t, domain.StageStatusDraft, events[0].Status)
}

func TestRFQService_CreateUnknownWorkOrder(t *testing.T) {
	svc, _ := newRFQService(t)
	_, err := svc.Create(context.Background(), &domain.CreateRFQRequest{WorkOrderID: uuid.New()}, "u")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRFQService_UpdateReconcilesItems(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "item churn", nil)
	itemA, itemB, itemC := uuid.New(), uuid.New(), uuid.New()
	vendorX := uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Items:       []domain.RFQItemInput{itemInput(itemA, 1, 10), itemInput(itemB, 2, 20)},
		Vendors:     []domain.RFQVendorInput{vendorInput(vendorX)},
	}, "u")
	require.NoError(t, err)

	// give the doomed item a quote so the orphan cleanup has something to do
	require.NoError(t, db.Create(&domain.RFQItemVendorQuote{
		RFQID:     dto.ID,
		ItemID:    itemA,
		VendorID:  vendorX,
		UnitPrice: 9,
	}).Error)

	// desired state {B', C}: A goes away, B changes, C is new
	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateRFQRequest{
		Items: []domain.RFQItemInput{
			itemInput(itemB, 3, 21),
			itemInput(itemC, 5, 7),
		},
		Vendors: []domain.RFQVendorInput{vendorInput(vendorX)},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	byItem := map[uuid.UUID]domain.RFQItemDTO{}
	for _, it := range updated.Items {
		byItem[it.ItemID] = it
	}
	assert.NotContains(t, byItem, itemA)
	assert.Equal(t, float64(3), byItem[itemB].Quantity)
	assert.Equal(t, float64(63), byItem[itemB].Amount)
	assert.Equal(t, float64(35), byItem[itemC].Amount)

	// the removed item's quotes are gone too
	var orphanCount int64
	require.NoError(t, db.Model(&domain.RFQItemVendorQuote{}).
		Where("rfq_id = ? AND item_id = ?", dto.ID, itemA).Count(&orphanCount).Error)
	assert.Equal(t, int64(0), orphanCount)
}

func TestRFQService_UpdateIsIdempotent(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "replay payload", nil)
	itemA, itemB := uuid.New(), uuid.New()
	vendorX := uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Items:       []domain.RFQItemInput{itemInput(itemA, 1, 10), itemInput(itemB, 2, 20)},
		Vendors:     []domain.RFQVendorInput{vendorInput(vendorX)},
	}, "u")
	require.NoError(t, err)

	payload := &domain.UpdateRFQRequest{
		Items:   []domain.RFQItemInput{itemInput(itemA, 1, 10), itemInput(itemB, 2, 20)},
		Vendors: []domain.RFQVendorInput{vendorInput(vendorX)},
		Quotes: []domain.RFQQuoteInput{
			{ItemID: &itemA, VendorID: &vendorX, UnitPrice: 9.5},
		},
	}

	first, err := svc.Update(context.Background(), dto.ID, payload)
	require.NoError(t, err)
	second, err := svc.Update(context.Background(), dto.ID, payload)
	require.NoError(t, err)

	// replaying the same desired state keeps the same rows
	require.Len(t, second.Items, 2)
	require.Len(t, second.Vendors, 1)
	require.Len(t, second.Quotes, 1)
	assert.Equal(t, first.Quotes[0].ID, second.Quotes[0].ID)

	firstIDs := map[uuid.UUID]bool{}
	for _, it := range first.Items {
		firstIDs[it.ID] = true
	}
	for _, it := range second.Items {
		assert.True(t, firstIDs[it.ID], "item rows must survive a replay")
	}
}

func TestRFQService_UpdateVendorRemovalCascadesQuotes(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "vendor churn", nil)
	itemA := uuid.New()
	vendorX, vendorY := uuid.New(), uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Items:       []domain.RFQItemInput{itemInput(itemA, 1, 10)},
		Vendors:     []domain.RFQVendorInput{vendorInput(vendorX), vendorInput(vendorY)},
	}, "u")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), dto.ID, &domain.UpdateRFQRequest{
		Items:   []domain.RFQItemInput{itemInput(itemA, 1, 10)},
		Vendors: []domain.RFQVendorInput{vendorInput(vendorX), vendorInput(vendorY)},
		Quotes: []domain.RFQQuoteInput{
			{ItemID: &itemA, VendorID: &vendorX, UnitPrice: 8},
			{ItemID: &itemA, VendorID: &vendorY, UnitPrice: 7},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateRFQRequest{
		Items:   []domain.RFQItemInput{itemInput(itemA, 1, 10)},
		Vendors: []domain.RFQVendorInput{vendorInput(vendorX)},
		Quotes: []domain.RFQQuoteInput{
			{ItemID: &itemA, VendorID: &vendorX, UnitPrice: 8},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Vendors, 1)
	require.Len(t, updated.Quotes, 1)
	assert.Equal(t, vendorX, updated.Quotes[0].VendorID)

	var count int64
	require.NoError(t, db.Model(&domain.RFQItemVendorQuote{}).
		Where("rfq_id = ? AND vendor_id = ?", dto.ID, vendorY).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRFQService_UpdateAcceptsNestedVendorQuotes(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "nested quotes", nil)
	itemA := uuid.New()
	vendorX := uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Items:       []domain.RFQItemInput{itemInput(itemA, 2, 10)},
		Vendors:     []domain.RFQVendorInput{vendorInput(vendorX)},
	}, "u")
	require.NoError(t, err)

	// the quote omits its vendor id and inherits it from the enclosing vendor
	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateRFQRequest{
		Items: []domain.RFQItemInput{itemInput(itemA, 2, 10)},
		Vendors: []domain.RFQVendorInput{
			{
				VendorID: &vendorX,
				Quotes: []domain.RFQQuoteInput{
					{ItemID: &itemA, UnitPrice: 8.5, LeadTime: 14},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Quotes, 1)
	assert.Equal(t, vendorX, updated.Quotes[0].VendorID)
	assert.Equal(t, itemA, updated.Quotes[0].ItemID)
	assert.Equal(t, 8.5, updated.Quotes[0].UnitPrice)
}

func TestRFQService_UpdateProjectsSelectedQuote(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "quote selection", nil)
	itemA := uuid.New()
	vendorX, vendorY := uuid.New(), uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Items:       []domain.RFQItemInput{itemInput(itemA, 4, 100)},
		Vendors:     []domain.RFQVendorInput{vendorInput(vendorX), vendorInput(vendorY)},
	}, "u")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateRFQRequest{
		Items:   []domain.RFQItemInput{itemInput(itemA, 4, 100)},
		Vendors: []domain.RFQVendorInput{vendorInput(vendorX), vendorInput(vendorY)},
		Quotes: []domain.RFQQuoteInput{
			{ItemID: &itemA, VendorID: &vendorX, UnitPrice: 80, LeadTime: 21},
			{ItemID: &itemA, VendorID: &vendorY, UnitPrice: 85, LeadTime: 7, IsSelected: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, float64(85), updated.Items[0].UnitPrice, "selected quote price wins")
	assert.Equal(t, 7, updated.Items[0].LeadTime)
	assert.Equal(t, float64(340), updated.Items[0].Amount)

	// the projection is persisted, not just rendered
	var row domain.RFQItem
	require.NoError(t, db.Where("rfq_id = ? AND item_id = ?", dto.ID, itemA).First(&row).Error)
	assert.Equal(t, float64(85), row.UnitPrice)
	assert.Equal(t, float64(340), row.Amount)
}

func TestRFQService_UpdateWithStageStatusAppendsEvent(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "stage move", nil)
	itemA := uuid.New()

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{
		WorkOrderID: wo.ID,
		Items:       []domain.RFQItemInput{itemInput(itemA, 1, 10)},
	}, "grace")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateRFQRequest{
		StageStatus: strPtr(domain.StageStatusSubmitted),
		Items:       []domain.RFQItemInput{itemInput(itemA, 1, 10)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageStatusSubmitted, updated.StageStatus, "event propagates onto the rfq row")

	var events []domain.StageEvent
	require.NoError(t, db.Where("work_order_id = ? AND stage_name = ?", wo.ID, domain.StageNameRFQ).
		Order("created_at ASC, id ASC").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, domain.StageStatusSubmitted, events[1].Status)
	require.NotNil(t, events[1].AssignedTo)
	assert.Equal(t, "grace", *events[1].AssignedTo)
}

func TestRFQService_GetByWorkOrderAndDelete(t *testing.T) {
	svc, db := newRFQService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "lifecycle", nil)

	_, err := svc.GetByWorkOrder(context.Background(), wo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	dto, err := svc.Create(context.Background(), &domain.CreateRFQRequest{WorkOrderID: wo.ID}, "u")
	require.NoError(t, err)

	found, err := svc.GetByWorkOrder(context.Background(), wo.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, found.ID)

	require.NoError(t, svc.Delete(context.Background(), dto.ID))
	_, err = svc.Get(context.Background(), dto.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturis/worktrack-api/internal/domain"
)

func TestToStageEventDTO_FormatsTimestampsUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := &domain.StageEvent{
		BaseModel: domain.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Date(2025, 5, 1, 13, 0, 0, 0, loc),
			UpdatedAt: time.Date(2025, 5, 1, 13, 0, 0, 0, loc),
		},
		WorkOrderID: uuid.New(),
		StageName:   domain.StageNameRFQ,
		Status:      domain.StageStatusDraft,
	}

	dto := ToStageEventDTO(event)
	assert.Equal(t, "2025-05-01T12:00:00Z", dto.CreatedAt)
	assert.Equal(t, domain.StageNameRFQ, dto.StageName)
}

func TestToWorkOrderDTO_IncludesAccountName(t *testing.T) {
	accountID := uuid.New()
	wo := &domain.WorkOrder{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Code:        "WO-2025-0005",
		Description: "site survey",
		AccountID:   &accountID,
		Account:     &domain.Account{Name: "Summit Works"},
	}

	dto := ToWorkOrderDTO(wo)
	assert.Equal(t, "WO-2025-0005", dto.Code)
	assert.Equal(t, "Summit Works", dto.AccountName)
}

func TestToRFQDTO_SelectedQuoteOverridesItemPrice(t *testing.T) {
	itemA, itemB := uuid.New(), uuid.New()
	vendorX := uuid.New()

	rfq := &domain.RFQ{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Code:        "RFQ-2025-0002",
		WorkOrderID: uuid.New(),
		Items: []domain.RFQItem{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, ItemID: itemA, Quantity: 3, UnitPrice: 100, Amount: 300},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, ItemID: itemB, Quantity: 1, UnitPrice: 50, Amount: 50},
		},
		Quotes: []domain.RFQItemVendorQuote{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, ItemID: itemA, VendorID: vendorX, UnitPrice: 90, LeadTime: 10, IsSelected: true},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, ItemID: itemB, VendorID: vendorX, UnitPrice: 40, LeadTime: 5},
		},
	}

	dto := ToRFQDTO(rfq, nil, nil)

	require.Len(t, dto.Items, 2)
	// item A has a selected quote: its price, lead time and amount follow it
	assert.Equal(t, float64(90), dto.Items[0].UnitPrice)
	assert.Equal(t, 10, dto.Items[0].LeadTime)
	assert.Equal(t, float64(270), dto.Items[0].Amount)
	// item B's quote is not selected: stored values stand
	assert.Equal(t, float64(50), dto.Items[1].UnitPrice)
	assert.Equal(t, float64(50), dto.Items[1].Amount)
}

func TestToRFQDTO_EnrichesNamesFromLookups(t *testing.T) {
	itemA := uuid.New()
	vendorX := uuid.New()

	rfq := &domain.RFQ{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Items: []domain.RFQItem{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, ItemID: itemA, Quantity: 1, UnitPrice: 10, Amount: 10},
		},
		Vendors: []domain.RFQVendor{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, VendorID: vendorX},
		},
	}
	items := map[uuid.UUID]domain.CatalogItem{
		itemA: {Name: "Bearing 6204", Description: "deep groove ball bearing"},
	}
	vendors := map[uuid.UUID]domain.Vendor{
		vendorX: {Name: "Apex Components"},
	}

	dto := ToRFQDTO(rfq, items, vendors)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, "Bearing 6204", dto.Items[0].ItemName)
	assert.Equal(t, "deep groove ball bearing", dto.Items[0].Description,
		"catalog description fills an empty item description")
	require.Len(t, dto.Vendors, 1)
	assert.Equal(t, "Apex Components", dto.Vendors[0].VendorName)
}

func TestToRFQDTO_EmptyCollectionsAreNotNil(t *testing.T) {
	rfq := &domain.RFQ{BaseModel: domain.BaseModel{ID: uuid.New()}}

	dto := ToRFQDTO(rfq, nil, nil)
	assert.NotNil(t, dto.Items)
	assert.NotNil(t, dto.Vendors)
	assert.NotNil(t, dto.Quotes)
}

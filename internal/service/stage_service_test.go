package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/repository"
	"github.com/venturis/worktrack-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newStageService(t *testing.T) (*StageService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	svc := NewStageService(
		repository.NewStageEventRepository(db),
		repository.NewWorkOrderRepository(db),
		repository.NewSalesLeadRepository(db),
		repository.NewTechnicalRecommendationRepository(db),
		repository.NewRFQRepository(db),
		repository.NewQuotationRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestStageService_AppendCanonicalizesStageName(t *testing.T) {
	svc, db := newStageService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "canonical names", nil)

	tests := []struct {
		input string
		want  string
	}{
		{"Technical Reco submitted", domain.StageNameTechnicalRecommendation},
		{"sales lead", domain.StageNameSalesLead},
		{"rfq round 2", domain.StageNameRFQ},
		{"quote", domain.StageNameQuotation},
		{"anything else", domain.StageNameWorkOrder},
	}
	for _, tt := range tests {
		dto, err := svc.Append(context.Background(), &domain.AppendStageRequest{
			WorkOrderID: wo.ID,
			StageName:   tt.input,
			Status:      domain.StageStatusDraft,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, dto.StageName, "input %q", tt.input)
	}
}

func TestStageService_AppendNAEFRequiresAccount(t *testing.T) {
	svc, db := newStageService(t)

	t.Run("without account", func(t *testing.T) {
		wo := testutil.CreateTestWorkOrder(t, db, "no account", nil)
		_, err := svc.Append(context.Background(), &domain.AppendStageRequest{
			WorkOrderID: wo.ID,
			StageName:   "NAEF",
			Status:      domain.StageStatusDraft,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("with account", func(t *testing.T) {
		account := testutil.CreateTestAccount(t, db, "Harbor Supply Co")
		wo := testutil.CreateTestWorkOrder(t, db, "with account", &account.ID)

		dto, err := svc.Append(context.Background(), &domain.AppendStageRequest{
			WorkOrderID: wo.ID,
			StageName:   "NAEF",
			Status:      domain.StageStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StageNameAccount, dto.StageName)

		var got domain.Account
		require.NoError(t, db.First(&got, "id = ?", account.ID).Error)
		assert.Equal(t, domain.StageStatusApproved, got.StageStatus)
	})
}

func TestStageService_AppendUnknownWorkOrder(t *testing.T) {
	svc, _ := newStageService(t)

	_, err := svc.Append(context.Background(), &domain.AppendStageRequest{
		WorkOrderID: uuid.New(),
		StageName:   domain.StageNameWorkOrder,
		Status:      domain.StageStatusPending,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStageService_HistoryNewestFirst(t *testing.T) {
	svc, db := newStageService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "history", nil)

	require.NoError(t, db.Create(&domain.StageEvent{
		BaseModel:   domain.BaseModel{CreatedAt: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)},
		WorkOrderID: wo.ID,
		StageName:   domain.StageNameWorkOrder,
		Status:      domain.StageStatusPending,
	}).Error)
	require.NoError(t, db.Create(&domain.StageEvent{
		BaseModel:   domain.BaseModel{CreatedAt: time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)},
		WorkOrderID: wo.ID,
		StageName:   domain.StageNameSalesLead,
		Status:      domain.StageStatusDraft,
	}).Error)

	history, err := svc.History(context.Background(), wo.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StageNameSalesLead, history[0].StageName)
	assert.Equal(t, domain.StageNameWorkOrder, history[1].StageName)

	latest, err := svc.Latest(context.Background(), wo.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNameSalesLead, latest.StageName)
}

func TestStageService_UpdateAndDelete(t *testing.T) {
	svc, db := newStageService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "mutable log fields", nil)

	dto, err := svc.Append(context.Background(), &domain.AppendStageRequest{
		WorkOrderID: wo.ID,
		StageName:   domain.StageNameWorkOrder,
		Status:      domain.StageStatusPending,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateStageRequest{
		Status:     strPtr(domain.StageStatusApproved),
		AssignedTo: strPtr("bob"),
		Remarks:    strPtr("fast-tracked"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageStatusApproved, updated.Status)
	assert.Equal(t, "fast-tracked", updated.Remarks)

	var got domain.WorkOrder
	require.NoError(t, db.First(&got, "id = ?", wo.ID).Error)
	assert.Equal(t, domain.StageStatusApproved, got.StageStatus)

	require.NoError(t, svc.Delete(context.Background(), dto.ID))
	_, err = svc.Get(context.Background(), dto.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStageService_LatestSubmittedInbox(t *testing.T) {
	svc, db := newStageService(t)

	account := testutil.CreateTestAccount(t, db, "Meridian Foods")
	wo := testutil.CreateTestWorkOrder(t, db, "inbox row", &account.ID)
	lead := &domain.SalesLead{
		Code:        "FSL-2025-0007",
		WorkOrderID: wo.ID,
		AccountID:   &account.ID,
		StageStatus: domain.StageStatusSubmitted,
	}
	require.NoError(t, db.Create(lead).Error)

	require.NoError(t, db.Create(&domain.StageEvent{
		BaseModel:   domain.BaseModel{CreatedAt: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)},
		WorkOrderID: wo.ID,
		StageName:   domain.StageNameWorkOrder,
		Status:      domain.StageStatusApproved,
	}).Error)
	require.NoError(t, db.Create(&domain.StageEvent{
		BaseModel:   domain.BaseModel{CreatedAt: time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)},
		WorkOrderID: wo.ID,
		StageName:   domain.StageNameSalesLead,
		Status:      domain.StageStatusSubmitted,
		AssignedTo:  strPtr("carol"),
	}).Error)

	rows, err := svc.LatestSubmitted(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, domain.StageKindSalesLead, row.Module)
	assert.Equal(t, wo.ID, row.WorkOrderID)
	assert.Equal(t, wo.Code, row.WorkOrderCode)
	assert.Equal(t, "FSL-2025-0007", row.TransactionNo, "the inbox shows the module's own code")
	assert.Equal(t, "Meridian Foods", row.AccountName)
	assert.Equal(t, domain.StageStatusSubmitted, row.Status)
}

func TestStageService_LatestSubmittedToleratesMissingModuleRow(t *testing.T) {
	svc, db := newStageService(t)

	wo := testutil.CreateTestWorkOrder(t, db, "orphan submission", nil)
	// submitted sales lead event but no sales_leads row behind it
	require.NoError(t, db.Create(&domain.StageEvent{
		WorkOrderID: wo.ID,
		StageName:   domain.StageNameSalesLead,
		Status:      domain.StageStatusSubmitted,
	}).Error)

	rows, err := svc.LatestSubmitted(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, wo.Code, rows[0].TransactionNo, "falls back to the work order code")
}

func TestStageService_LatestAssigned(t *testing.T) {
	svc, db := newStageService(t)

	t.Run("work order pending", func(t *testing.T) {
		wo := testutil.CreateTestWorkOrder(t, db, "intake triage", nil)
		require.NoError(t, db.Create(&domain.StageEvent{
			WorkOrderID: wo.ID,
			StageName:   domain.StageNameWorkOrder,
			Status:      domain.StageStatusPending,
			AssignedTo:  strPtr("dave"),
		}).Error)

		item, err := svc.LatestAssigned(context.Background(), "dave", "WO")
		require.NoError(t, err)
		assert.Equal(t, domain.StageKindWorkOrder, item.Module)
		assert.Equal(t, wo.ID, item.ID)
		assert.Equal(t, wo.Code, item.Code)
		assert.Equal(t, "intake triage", item.Description)
		assert.Equal(t, domain.StageStatusPending, item.StageStatus)
	})

	t.Run("sales lead draft", func(t *testing.T) {
		wo := testutil.CreateTestWorkOrder(t, db, "lead followup", nil)
		lead := &domain.SalesLead{
			Code:        "FSL-2025-0021",
			WorkOrderID: wo.ID,
			Brand:       "Vortex",
			Description: "replacement parts inquiry",
			StageStatus: domain.StageStatusDraft,
		}
		require.NoError(t, db.Create(lead).Error)
		require.NoError(t, db.Create(&domain.StageEvent{
			WorkOrderID: wo.ID,
			StageName:   domain.StageNameSalesLead,
			Status:      domain.StageStatusDraft,
			AssignedTo:  strPtr("erin"),
		}).Error)

		item, err := svc.LatestAssigned(context.Background(), "erin", "SL")
		require.NoError(t, err)
		assert.Equal(t, domain.StageKindSalesLead, item.Module)
		assert.Equal(t, lead.ID, item.ID)
		assert.Equal(t, "FSL-2025-0021", item.Code)
		assert.Equal(t, "Vortex", item.Brand)
		assert.Equal(t, "replacement parts inquiry", item.Description)
	})

	t.Run("nothing assigned", func(t *testing.T) {
		_, err := svc.LatestAssigned(context.Background(), "nobody", "RFQ")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

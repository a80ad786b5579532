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

func newSalesLeadService(t *testing.T) (*SalesLeadService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	sequences := NewSequenceService(repository.NewNumberSequenceRepository(db), zap.NewNop())
	svc := NewSalesLeadService(
		db,
		repository.NewSalesLeadRepository(db),
		repository.NewWorkOrderRepository(db),
		sequences,
		zap.NewNop(),
	)
	return svc, db
}

func TestSalesLeadService_Create(t *testing.T) {
	svc, db := newSalesLeadService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "new lead", nil)

	dto, err := svc.Create(context.Background(), &domain.CreateSalesLeadRequest{
		WorkOrderID: wo.ID,
		Brand:       "Aquila",
		Description: "pump line inquiry",
	}, "judy")
	require.NoError(t, err)

	assert.Contains(t, dto.Code, "FSL-")
	assert.Equal(t, "Aquila", dto.Brand)
	assert.Equal(t, "judy", dto.AssignedTo, "assignee defaults to the creator")
	assert.Equal(t, domain.StageStatusDraft, dto.StageStatus)

	var events []domain.StageEvent
	require.NoError(t, db.Where("work_order_id = ?", wo.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StageNameSalesLead, events[0].StageName)
	assert.Equal(t, domain.StageStatusDraft, events[0].Status)
}

func TestSalesLeadService_CreateInheritsWorkOrderAccount(t *testing.T) {
	svc, db := newSalesLeadService(t)
	account := testutil.CreateTestAccount(t, db, "Inherited Holdings")
	wo := testutil.CreateTestWorkOrder(t, db, "with account", &account.ID)

	dto, err := svc.Create(context.Background(), &domain.CreateSalesLeadRequest{
		WorkOrderID: wo.ID,
	}, "u")
	require.NoError(t, err)

	require.NotNil(t, dto.AccountID)
	assert.Equal(t, account.ID, *dto.AccountID)
}

func TestSalesLeadService_CreateUnknownWorkOrder(t *testing.T) {
	svc, _ := newSalesLeadService(t)
	_, err := svc.Create(context.Background(), &domain.CreateSalesLeadRequest{
		WorkOrderID: uuid.New(),
	}, "u")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSalesLeadService_UpdateAndDelete(t *testing.T) {
	svc, db := newSalesLeadService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "lead lifecycle", nil)

	dto, err := svc.Create(context.Background(), &domain.CreateSalesLeadRequest{
		WorkOrderID: wo.ID,
		Brand:       "before",
	}, "u")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateSalesLeadRequest{
		Brand:       strPtr("after"),
		Description: strPtr("expanded scope"),
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Brand)
	assert.Equal(t, "expanded scope", updated.Description)

	require.NoError(t, svc.Delete(context.Background(), dto.ID))
	_, err = svc.Get(context.Background(), dto.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

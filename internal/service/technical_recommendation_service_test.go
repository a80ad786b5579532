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

func newTRService(t *testing.T) (*TechnicalRecommendationService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	sequences := NewSequenceService(repository.NewNumberSequenceRepository(db), zap.NewNop())
	svc := NewTechnicalRecommendationService(
		db,
		repository.NewTechnicalRecommendationRepository(db),
		repository.NewSalesLeadRepository(db),
		repository.NewWorkOrderRepository(db),
		sequences,
		zap.NewNop(),
	)
	return svc, db
}

func TestTechnicalRecommendationService_Create(t *testing.T) {
	svc, db := newTRService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "needs engineering input", nil)

	dto, err := svc.Create(context.Background(), &domain.CreateTechnicalRecommendationRequest{
		WorkOrderID: wo.ID,
		Summary:     "recommend the 40kW variant",
	}, "kim")
	require.NoError(t, err)

	assert.Contains(t, dto.Code, "TR-")
	assert.Equal(t, "recommend the 40kW variant", dto.Summary)
	assert.Equal(t, "kim", dto.AssignedTo)
	assert.Equal(t, domain.StageStatusDraft, dto.StageStatus)

	var events []domain.StageEvent
	require.NoError(t, db.Where("work_order_id = ?", wo.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StageNameTechnicalRecommendation, events[0].StageName)
}

func TestTechnicalRecommendationService_CreateVerifiesSalesLead(t *testing.T) {
	svc, db := newTRService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "chained from lead", nil)

	t.Run("unknown sales lead", func(t *testing.T) {
		bogus := uuid.New()
		_, err := svc.Create(context.Background(), &domain.CreateTechnicalRecommendationRequest{
			WorkOrderID: wo.ID,
			SalesLeadID: &bogus,
		}, "u")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("existing sales lead", func(t *testing.T) {
		lead := &domain.SalesLead{Code: "FSL-2025-0031", WorkOrderID: wo.ID}
		require.NoError(t, db.Create(lead).Error)

		dto, err := svc.Create(context.Background(), &domain.CreateTechnicalRecommendationRequest{
			WorkOrderID: wo.ID,
			SalesLeadID: &lead.ID,
		}, "u")
		require.NoError(t, err)
		require.NotNil(t, dto.SalesLeadID)
		assert.Equal(t, lead.ID, *dto.SalesLeadID)
	})
}

func TestTechnicalRecommendationService_UpdateAndDelete(t *testing.T) {
	svc, db := newTRService(t)
	wo := testutil.CreateTestWorkOrder(t, db, "tr lifecycle", nil)

	dto, err := svc.Create(context.Background(), &domain.CreateTechnicalRecommendationRequest{
		WorkOrderID: wo.ID,
		Summary:     "draft summary",
	}, "u")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateTechnicalRecommendationRequest{
		Summary:    strPtr("final summary"),
		AssignedTo: strPtr("lee"),
	})
	require.NoError(t, err)
	assert.Equal(t, "final summary", updated.Summary)
	assert.Equal(t, "lee", updated.AssignedTo)

	require.NoError(t, svc.Delete(context.Background(), dto.ID))
	_, err = svc.Get(context.Background(), dto.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

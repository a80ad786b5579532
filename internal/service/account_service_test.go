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

func newAccountService(t *testing.T) (*AccountService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	sequences := NewSequenceService(repository.NewNumberSequenceRepository(db), zap.NewNop())
	return NewAccountService(repository.NewAccountRepository(db), sequences, zap.NewNop()), db
}

func TestAccountService_Create(t *testing.T) {
	svc, db := newAccountService(t)

	dto, err := svc.Create(context.Background(), &domain.CreateAccountRequest{
		Name:          "Pinnacle Fabrication",
		Industry:      "Manufacturing",
		ContactPerson: "M. Reyes",
		ContactEmail:  "m.reyes@pinnacle.example",
	}, "mona")
	require.NoError(t, err)

	assert.Contains(t, dto.Code, "NAEF-")
	assert.Equal(t, "Pinnacle Fabrication", dto.Name)
	assert.Equal(t, "mona", dto.AssignedTo)
	assert.Equal(t, domain.StageStatusDraft, dto.StageStatus)

	// enrollment happens outside any work order: no stage event is written
	var count int64
	require.NoError(t, db.Model(&domain.StageEvent{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAccountService_UpdateAndDelete(t *testing.T) {
	svc, _ := newAccountService(t)

	dto, err := svc.Create(context.Background(), &domain.CreateAccountRequest{Name: "Old Name"}, "u")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateAccountRequest{
		Name:     strPtr("New Name"),
		Industry: strPtr("Logistics"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Logistics", updated.Industry)

	require.NoError(t, svc.Delete(context.Background(), dto.ID))
	_, err = svc.Get(context.Background(), dto.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountService_GetUnknown(t *testing.T) {
	svc, _ := newAccountService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

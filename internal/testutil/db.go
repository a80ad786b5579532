// Package testutil provides database helpers for tests. Tests run against an
// in-memory sqlite database migrated from the same models production uses.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh in-memory database and migrates the schema.
// Each call gets its own named shared-cache database, so tests stay isolated
// while gorm's connection pool still sees one store. TranslateError matches
// the production gorm config: duplicate inserts surface as
// gorm.ErrDuplicatedKey, which the conflict-retry path depends on.
func SetupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	// User is postgres-only (text[] roles) and has no sqlite-backed tests.
	err = db.AutoMigrate(
		&domain.Account{},
		&domain.WorkOrder{},
		&domain.StageEvent{},
		&domain.SalesLead{},
		&domain.TechnicalRecommendation{},
		&domain.RFQ{},
		&domain.RFQItem{},
		&domain.RFQVendor{},
		&domain.RFQItemVendorQuote{},
		&domain.Quotation{},
		&domain.Vendor{},
		&domain.CatalogItem{},
		&domain.NumberSequence{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// CreateTestAccount inserts an account with a unique code and returns it.
func CreateTestAccount(t *testing.T, db *gorm.DB, name string) *domain.Account {
	account := &domain.Account{
		Code:        fmt.Sprintf("NAEF-2025-%s", uuid.NewString()[:8]),
		Name:        name,
		StageStatus: domain.StageStatusDraft,
		CreatedBy:   "test-user",
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// CreateTestWorkOrder inserts a work order with a unique code and returns it.
// accountID may be nil.
func CreateTestWorkOrder(t *testing.T, db *gorm.DB, description string, accountID *uuid.UUID) *domain.WorkOrder {
	wo := &domain.WorkOrder{
		Code:        fmt.Sprintf("WO-2025-%s", uuid.NewString()[:8]),
		Description: description,
		AssignedTo:  "test-user",
		StageStatus: domain.StageStatusPending,
		AccountID:   accountID,
		CreatedBy:   "test-user",
	}
	require.NoError(t, db.Create(wo).Error)
	return wo
}

// CreateTestVendor inserts a vendor registry row.
func CreateTestVendor(t *testing.T, db *gorm.DB, name string) *domain.Vendor {
	vendor := &domain.Vendor{Name: name}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

// CreateTestCatalogItem inserts an item catalog row.
func CreateTestCatalogItem(t *testing.T, db *gorm.DB, name string) *domain.CatalogItem {
	item := &domain.CatalogItem{Name: name, Unit: "pcs"}
	require.NoError(t, db.Create(item).Error)
	return item
}

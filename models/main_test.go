package models

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

// openTestDB returns an isolated in-memory database, unmigrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// setupTestDB migrates a fresh database and installs it as the global connection.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	previous := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(previous) })
	return db
}

func testEntry(t *testing.T, date string, cash string, pettyCash string) *reconciliation.Entry {
	t.Helper()
	e, err := reconciliation.ParseForm(reconciliation.Form{
		Date:       date,
		GrossSales: "500.00",
		Surcharges: "35.00",
		NetSales:   "465.00",
		Cash:       reconciliation.AmountInput(cash),
		Ath:        "100.00",
		Debit:      "50.00",
		Credit:     "50.00",
		FixedFloat: "147.50",
		Deposit:    "100.00",
	}, dec(pettyCash), testNow)
	require.NoError(t, err)
	return e
}

// insertEntry stores a full record the way the create workflow does.
func insertEntry(t *testing.T, store Store, e *reconciliation.Entry) int {
	t.Helper()
	var id int
	err := store.Transaction(context.Background(), func(tx Store) error {
		var err error
		id, err = tx.InsertDailyRecord(context.Background(), e.Date, e.DayName)
		if err != nil {
			return err
		}
		return tx.InsertLineItems(context.Background(), id, e.LineItems(), e.ComputedAt)
	})
	require.NoError(t, err)
	return id
}

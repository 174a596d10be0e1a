package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGormStoreInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	e := testEntry(t, "2024-03-04", "300.00", "12.50")
	id := insertEntry(t, store, e)

	record, err := store.GetDailyRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, utils.DateString("2024-03-04"), record.Date)
	assert.Equal(t, "Lunes", record.DayName)
	assert.Len(t, record.SalesData, 4)
	assert.Len(t, record.PaymentMethods, 4)
	assert.Len(t, record.SummaryData, 5)

	for _, s := range record.SummaryData {
		if s.IsCalculated {
			require.NotNil(t, s.ComputedAt, s.Label)
			assert.True(t, s.ComputedAt.Equal(testNow), s.Label)
		} else {
			assert.Nil(t, s.ComputedAt, s.Label)
		}
	}

	stored := record.Entry()
	assert.Equal(t, e.AuditPayload(), stored.AuditPayload())
	assert.Equal(t, "40.00", stored.Derived.Balance.StringFixed(2))
	assert.True(t, stored.ComputedAt.Equal(testNow))

	exists, err := store.DailyRecordExists(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.DailyRecordExists(ctx, "2024-03-05")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormStoreGetMissing(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	_, err := store.GetDailyRecord(context.Background(), 999)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestGormStoreUpdateLineItem(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	id := insertEntry(t, store, testEntry(t, "2024-03-04", "300.00", "0"))

	later := testNow.Add(2 * time.Hour)
	require.NoError(t, store.UpdateLineItem(ctx, id, reconciliation.LineItem{
		Kind: reconciliation.KindPayment, Key: reconciliation.KeyCash, Amount: dec("310"),
	}, later))
	require.NoError(t, store.UpdateLineItem(ctx, id, reconciliation.LineItem{
		Kind: reconciliation.KindSummary, Key: reconciliation.KeyBalance, Amount: dec("62.50"), IsCalculated: true,
	}, later))

	// missing rows are inserted
	require.NoError(t, db.Where("daily_record_id = ? AND label = ?", id, reconciliation.KeyDeposit).Delete(&SummaryData{}).Error)
	require.NoError(t, store.UpdateLineItem(ctx, id, reconciliation.LineItem{
		Kind: reconciliation.KindSummary, Key: reconciliation.KeyDeposit, Amount: dec("90"),
	}, later))

	record, err := store.GetDailyRecord(ctx, id)
	require.NoError(t, err)
	e := record.Entry()
	assert.Equal(t, "310.00", e.Payments.Cash.StringFixed(2))
	assert.Equal(t, "62.50", e.Derived.Balance.StringFixed(2))
	assert.Equal(t, "90.00", e.Deposit.StringFixed(2))
	assert.Len(t, record.SummaryData, 5)
	assert.True(t, e.ComputedAt.Equal(later))

	assert.Error(t, store.UpdateLineItem(ctx, id, reconciliation.LineItem{Kind: "other", Key: "X"}, later))
}

func TestGormStoreUpdateRecordDate(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	id := insertEntry(t, store, testEntry(t, "2024-03-04", "300.00", "0"))

	require.NoError(t, store.UpdateRecordDate(ctx, id, "2024-03-05", "Martes"))
	record, err := store.GetDailyRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, utils.DateString("2024-03-05"), record.Date)
	assert.Equal(t, "Martes", record.DayName)

	assert.ErrorIs(t, store.UpdateRecordDate(ctx, 999, "2024-03-05", "Martes"), utils.ErrorRecordNotFound)
}

func TestGormStoreDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	id := insertEntry(t, store, testEntry(t, "2024-03-04", "300.00", "0"))
	other := insertEntry(t, store, testEntry(t, "2024-03-05", "300.00", "0"))

	entry, err := NewAuditLog(id, AuditActionDelete, "Ana", map[string]string{"date": "2024-03-04"})
	require.NoError(t, err)
	require.NoError(t, store.AppendAuditEntry(ctx, entry))
	require.NoError(t, store.AppendAuditEntry(ctx, mustAuditLog(t, other, AuditActionCreate)))
	require.NoError(t, store.DeleteRecord(ctx, id))

	_, err = store.GetDailyRecord(ctx, id)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&SalesData{}).Where("daily_record_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&PaymentMethod{}).Where("daily_record_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&SummaryData{}).Where("daily_record_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&AuditLog{}).Where("daily_record_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)

	// siblings untouched
	record, err := store.GetDailyRecord(ctx, other)
	require.NoError(t, err)
	assert.Len(t, record.SalesData, 4)
	assert.Len(t, record.AuditLogs, 1)

	assert.ErrorIs(t, store.DeleteRecord(ctx, id), utils.ErrorRecordNotFound)
}

func TestGormStoreTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.InsertDailyRecord(ctx, "2024-03-04", "Lunes"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.DailyRecordExists(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormStoreQueryPettyCashSum(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	sum, err := store.QueryPettyCashSum(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	for _, r := range []PettyCashRecord{
		{Date: "2024-03-04", Category: "Payroll", Name: "a", Amount: dec("10.25")},
		{Date: "2024-03-04", Category: "Limpieza", Name: "b", Amount: dec("2.25")},
		{Date: "2024-03-05", Category: "Payroll", Name: "c", Amount: dec("99")},
	} {
		r := r
		require.NoError(t, db.Create(&r).Error)
	}
	sum, err = store.QueryPettyCashSum(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "12.50", sum.StringFixed(2))
}

func TestGormStoreQueryPettyCashSumWithoutTable(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	sum, err := store.QueryPettyCashSum(context.Background(), "2024-03-04")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestGormStoreListDailyRecords(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	for _, d := range []string{"2024-03-01", "2024-03-03", "2024-03-02", "2024-03-05"} {
		insertEntry(t, store, testEntry(t, d, "300.00", "0"))
	}

	records, err := store.ListDailyRecords(ctx, DailyRecordFilter{FromDate: "2024-03-02", ToDate: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, utils.DateString("2024-03-02"), records[0].Date)
	assert.Equal(t, utils.DateString("2024-03-03"), records[1].Date)

	latest, err := store.ListDailyRecords(ctx, DailyRecordFilter{Latest: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, utils.DateString("2024-03-05"), latest[0].Date)
	assert.Len(t, latest[0].SummaryData, 5)
}

func TestAuditLogChanges(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	id := insertEntry(t, store, testEntry(t, "2024-03-04", "300.00", "0"))

	changes := reconciliation.ChangeSet{reconciliation.FieldCash: {Old: "300.00", New: "310.00"}}
	entry, err := NewAuditLog(id, AuditActionUpdate, "Ana", changes)
	require.NoError(t, err)
	require.NoError(t, store.AppendAuditEntry(ctx, entry))

	record, err := store.GetDailyRecord(ctx, id)
	require.NoError(t, err)
	require.Len(t, record.AuditLogs, 1)
	log := record.AuditLogs[0]
	assert.Equal(t, AuditActionUpdate, log.Action)
	assert.Equal(t, "Ana", log.UserName)

	var decoded reconciliation.ChangeSet
	require.NoError(t, log.DecodeChanges(&decoded))
	assert.Equal(t, changes, decoded)
}

func TestNewAuditLogRejectsUnencodableChanges(t *testing.T) {
	entry, err := NewAuditLog(1, AuditActionUpdate, "Ana", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Nil(t, entry)
}

func mustAuditLog(t *testing.T, recordId int, action AuditAction) *AuditLog {
	t.Helper()
	entry, err := NewAuditLog(recordId, action, "Ana", map[string]string{"action": string(action)})
	require.NoError(t, err)
	return entry
}

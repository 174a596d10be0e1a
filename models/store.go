package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the persistence contract the daily record workflow runs on.
type Store interface {
	InsertDailyRecord(ctx context.Context, date utils.DateString, dayName string) (int, error)
	InsertLineItems(ctx context.Context, recordId int, items []reconciliation.LineItem, computedAt time.Time) error
	UpdateLineItem(ctx context.Context, recordId int, item reconciliation.LineItem, computedAt time.Time) error
	UpdateRecordDate(ctx context.Context, recordId int, date utils.DateString, dayName string) error
	DeleteRecord(ctx context.Context, recordId int) error
	QueryPettyCashSum(ctx context.Context, date utils.DateString) (decimal.Decimal, error)
	AppendAuditEntry(ctx context.Context, entry *AuditLog) error
	DailyRecordExists(ctx context.Context, date utils.DateString) (bool, error)
	GetDailyRecord(ctx context.Context, id int) (*DailyRecord, error)
	ListDailyRecords(ctx context.Context, filter DailyRecordFilter) ([]*DailyRecord, error)
	// Transaction runs fn against a store bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

// NewGormStore with a nil db reads the connection from config on every call.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.GetDB()
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) InsertDailyRecord(ctx context.Context, date utils.DateString, dayName string) (int, error) {
	record := DailyRecord{Date: date, DayName: dayName}
	if err := s.conn().WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (s *GormStore) InsertLineItems(ctx context.Context, recordId int, items []reconciliation.LineItem, computedAt time.Time) error {
	var sales []*SalesData
	var payments []*PaymentMethod
	var summary []*SummaryData
	for _, item := range items {
		switch row := newLineItemRow(recordId, item, computedAt).(type) {
		case *SalesData:
			sales = append(sales, row)
		case *PaymentMethod:
			payments = append(payments, row)
		case *SummaryData:
			summary = append(summary, row)
		}
	}

	db := s.conn().WithContext(ctx)
	if len(sales) > 0 {
		if err := db.Create(&sales).Error; err != nil {
			return err
		}
	}
	if len(payments) > 0 {
		if err := db.Create(&payments).Error; err != nil {
			return err
		}
	}
	if len(summary) > 0 {
		if err := db.Create(&summary).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateLineItem matches on (record, kind, key). A row missing from an older
// record is inserted instead.
func (s *GormStore) UpdateLineItem(ctx context.Context, recordId int, item reconciliation.LineItem, computedAt time.Time) error {
	db := s.conn().WithContext(ctx)
	var result *gorm.DB
	switch item.Kind {
	case reconciliation.KindSales:
		result = db.Model(&SalesData{}).
			Where("daily_record_id = ? AND category = ?", recordId, item.Key).
			Update("amount", item.Amount)
	case reconciliation.KindPayment:
		result = db.Model(&PaymentMethod{}).
			Where("daily_record_id = ? AND method = ?", recordId, item.Key).
			Update("amount", item.Amount)
	case reconciliation.KindSummary:
		fields := map[string]interface{}{
			"amount":        item.Amount,
			"is_calculated": item.IsCalculated,
		}
		if item.IsCalculated {
			fields["computed_at"] = computedAt
		}
		result = db.Model(&SummaryData{}).
			Where("daily_record_id = ? AND label = ?", recordId, item.Key).
			Updates(fields)
	default:
		return errors.New("unknown line item kind " + string(item.Kind))
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return db.Create(newLineItemRow(recordId, item, computedAt)).Error
	}
	return nil
}

func (s *GormStore) UpdateRecordDate(ctx context.Context, recordId int, date utils.DateString, dayName string) error {
	result := s.conn().WithContext(ctx).Model(&DailyRecord{ID: recordId}).Updates(map[string]interface{}{
		"date":     date,
		"day_name": dayName,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// DeleteRecord removes the record with its line items and audit entries.
func (s *GormStore) DeleteRecord(ctx context.Context, recordId int) error {
	return s.conn().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&DailyRecord{}).Where("id = ?", recordId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.ErrorRecordNotFound
		}
		return tx.Select("SalesData", "PaymentMethods", "SummaryData", "AuditLogs").Delete(&DailyRecord{ID: recordId}).Error
	})
}

// QueryPettyCashSum is zero when the day has no rows or the ledger table does not exist.
func (s *GormStore) QueryPettyCashSum(ctx context.Context, date utils.DateString) (decimal.Decimal, error) {
	return sumPettyCash(s.conn().WithContext(ctx), PettyCashFilter{FromDate: date, ToDate: date})
}

func (s *GormStore) AppendAuditEntry(ctx context.Context, entry *AuditLog) error {
	return s.conn().WithContext(ctx).Create(entry).Error
}

func (s *GormStore) DailyRecordExists(ctx context.Context, date utils.DateString) (bool, error) {
	var count int64
	if err := s.conn().WithContext(ctx).Model(&DailyRecord{}).Where("date = ?", date).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) GetDailyRecord(ctx context.Context, id int) (*DailyRecord, error) {
	var record DailyRecord
	err := s.conn().WithContext(ctx).
		Preload("SalesData").Preload("PaymentMethods").Preload("SummaryData").
		First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if err := s.conn().WithContext(ctx).Where("daily_record_id = ?", id).Order("created_at, id").Find(&record.AuditLogs).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormStore) ListDailyRecords(ctx context.Context, filter DailyRecordFilter) ([]*DailyRecord, error) {
	dbCtx := s.conn().WithContext(ctx).Preload("SalesData").Preload("PaymentMethods").Preload("SummaryData")
	if !filter.FromDate.IsZero() {
		dbCtx = dbCtx.Where("date >= ?", filter.FromDate)
	}
	if !filter.ToDate.IsZero() {
		dbCtx = dbCtx.Where("date <= ?", filter.ToDate)
	}
	if filter.Latest {
		dbCtx = dbCtx.Order("date DESC, id DESC")
	} else {
		dbCtx = dbCtx.Order("date, id")
	}
	if filter.Limit > 0 {
		dbCtx = dbCtx.Limit(filter.Limit)
	}
	var results []*DailyRecord
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.conn().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

package models

import (
	"time"

	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

type DailyRecord struct {
	ID             int              `gorm:"primary_key" json:"id"`
	Date           utils.DateString `gorm:"size:10;not null;index" json:"date"`
	DayName        string           `gorm:"size:20;not null" json:"day_name"`
	SalesData      []*SalesData     `gorm:"foreignKey:DailyRecordId;constraint:OnDelete:CASCADE" json:"sales_data,omitempty"`
	PaymentMethods []*PaymentMethod `gorm:"foreignKey:DailyRecordId;constraint:OnDelete:CASCADE" json:"payment_methods,omitempty"`
	SummaryData    []*SummaryData   `gorm:"foreignKey:DailyRecordId;constraint:OnDelete:CASCADE" json:"summary_data,omitempty"`
	AuditLogs      []*AuditLog      `gorm:"foreignKey:DailyRecordId;constraint:OnDelete:CASCADE" json:"audit_logs,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type SalesData struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DailyRecordId int             `gorm:"index;not null" json:"daily_record_id"`
	Category      string          `gorm:"size:50;not null" json:"category"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type PaymentMethod struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DailyRecordId int             `gorm:"index;not null" json:"daily_record_id"`
	Method        string          `gorm:"size:50;not null" json:"method"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// SummaryData rows flagged IsCalculated hold derived figures frozen at ComputedAt.
type SummaryData struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DailyRecordId int             `gorm:"index;not null" json:"daily_record_id"`
	Label         string          `gorm:"size:50;not null" json:"label"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	IsCalculated  bool            `gorm:"not null;default:false" json:"is_calculated"`
	ComputedAt    *time.Time      `json:"computed_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type DailyRecordFilter struct {
	FromDate utils.DateString
	ToDate   utils.DateString
	Limit    int
	// Latest orders newest first; otherwise rows come oldest first.
	Latest bool
}

// LineItems flattens the stored child rows.
func (r *DailyRecord) LineItems() []reconciliation.LineItem {
	items := make([]reconciliation.LineItem, 0, len(r.SalesData)+len(r.PaymentMethods)+len(r.SummaryData))
	for _, s := range r.SalesData {
		items = append(items, reconciliation.LineItem{Kind: reconciliation.KindSales, Key: s.Category, Amount: s.Amount})
	}
	for _, p := range r.PaymentMethods {
		items = append(items, reconciliation.LineItem{Kind: reconciliation.KindPayment, Key: p.Method, Amount: p.Amount})
	}
	for _, s := range r.SummaryData {
		items = append(items, reconciliation.LineItem{Kind: reconciliation.KindSummary, Key: s.Label, Amount: s.Amount, IsCalculated: s.IsCalculated})
	}
	return items
}

// Entry rebuilds the reconciliation entry as it was stored, derived snapshot included.
func (r *DailyRecord) Entry() *reconciliation.Entry {
	e := reconciliation.EntryFromLineItems(r.Date, r.DayName, r.LineItems())
	for _, s := range r.SummaryData {
		if s.ComputedAt != nil && s.ComputedAt.After(e.ComputedAt) {
			e.ComputedAt = *s.ComputedAt
		}
	}
	if e.ComputedAt.IsZero() {
		e.ComputedAt = r.UpdatedAt
	}
	return e
}

func newLineItemRow(recordId int, item reconciliation.LineItem, computedAt time.Time) interface{} {
	switch item.Kind {
	case reconciliation.KindSales:
		return &SalesData{DailyRecordId: recordId, Category: item.Key, Amount: item.Amount}
	case reconciliation.KindPayment:
		return &PaymentMethod{DailyRecordId: recordId, Method: item.Key, Amount: item.Amount}
	default:
		row := &SummaryData{DailyRecordId: recordId, Label: item.Key, Amount: item.Amount, IsCalculated: item.IsCalculated}
		if item.IsCalculated {
			at := computedAt
			row.ComputedAt = &at
		}
		return row
	}
}

package models

import (
	"context"

	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

// CajaFuerteRow is one daily record in the safe ("caja fuerte") listing.
type CajaFuerteRow struct {
	ID                   int              `json:"id"`
	Date                 utils.DateString `json:"date"`
	DayName              string           `json:"day_name"`
	Surcharges           decimal.Decimal  `json:"surcharges"`
	CollectedAmount      decimal.Decimal  `json:"collected_amount"`
	TotalByPaymentMethod decimal.Decimal  `json:"total_by_payment_method"`
	Balance              decimal.Decimal  `json:"balance"`
	Deposit              decimal.Decimal  `json:"deposit"`
}

type CajaFuerteReport struct {
	Rows   []*CajaFuerteRow `json:"rows"`
	Totals CajaFuerteRow    `json:"totals"`
}

// TaxesNetRow reports a day's figures. PettyCashSnapshot is what was frozen on
// save; PettyCashLive is the ledger today, and Stale marks a drift between them.
type TaxesNetRow struct {
	Date                 utils.DateString `json:"date"`
	DayName              string           `json:"day_name"`
	Surcharges           decimal.Decimal  `json:"surcharges"`
	PettyCashSnapshot    decimal.Decimal  `json:"petty_cash_snapshot"`
	TotalByPaymentMethod decimal.Decimal  `json:"total_by_payment_method"`
	CollectedAmount      decimal.Decimal  `json:"collected_amount"`
	Deposit              decimal.Decimal  `json:"deposit"`
	PettyCashLive        decimal.Decimal  `json:"petty_cash_live"`
	Stale                bool             `json:"stale"`
}

type TaxesNetReport struct {
	Rows   []*TaxesNetRow `json:"rows"`
	Totals TaxesNetRow    `json:"totals"`
}

func GetCajaFuerteReport(ctx context.Context, filter DailyRecordFilter) (*CajaFuerteReport, error) {
	records, err := NewGormStore(config.GetDB()).ListDailyRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	report := CajaFuerteReport{Rows: make([]*CajaFuerteRow, 0, len(records))}
	for _, record := range records {
		e := record.Entry()
		row := &CajaFuerteRow{
			ID:                   record.ID,
			Date:                 record.Date,
			DayName:              record.DayName,
			Surcharges:           e.Surcharges,
			CollectedAmount:      e.Derived.CollectedAmount,
			TotalByPaymentMethod: e.Derived.TotalByPaymentMethod,
			Balance:              e.Derived.Balance,
			Deposit:              e.Deposit,
		}
		report.Rows = append(report.Rows, row)

		t := &report.Totals
		t.Surcharges = t.Surcharges.Add(row.Surcharges)
		t.CollectedAmount = t.CollectedAmount.Add(row.CollectedAmount)
		t.TotalByPaymentMethod = t.TotalByPaymentMethod.Add(row.TotalByPaymentMethod)
		t.Balance = t.Balance.Add(row.Balance)
		t.Deposit = t.Deposit.Add(row.Deposit)
	}
	report.Totals.DayName = "TOTAL"
	return &report, nil
}

func GetTaxesNetReport(ctx context.Context, filter DailyRecordFilter) (*TaxesNetReport, error) {
	db := config.GetDB()
	records, err := NewGormStore(db).ListDailyRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	live := map[utils.DateString]decimal.Decimal{}
	if db.Migrator().HasTable(&PettyCashRecord{}) {
		var expenses []*PettyCashRecord
		err := PettyCashFilter{FromDate: filter.FromDate, ToDate: filter.ToDate}.
			apply(db.WithContext(ctx)).
			Select("date", "amount").
			Find(&expenses).Error
		if err != nil {
			return nil, err
		}
		for _, x := range expenses {
			live[x.Date] = live[x.Date].Add(x.Amount)
		}
	}

	report := TaxesNetReport{Rows: make([]*TaxesNetRow, 0, len(records))}
	for _, record := range records {
		e := record.Entry()
		row := &TaxesNetRow{
			Date:                 record.Date,
			DayName:              record.DayName,
			Surcharges:           e.Surcharges,
			PettyCashSnapshot:    e.PettyCashExpenseTotal,
			TotalByPaymentMethod: e.Derived.TotalByPaymentMethod,
			CollectedAmount:      e.Derived.CollectedAmount,
			Deposit:              e.Deposit,
			PettyCashLive:        live[record.Date],
		}
		row.Stale = utils.FormatAmount(row.PettyCashLive) != utils.FormatAmount(row.PettyCashSnapshot)
		report.Rows = append(report.Rows, row)

		t := &report.Totals
		t.Surcharges = t.Surcharges.Add(row.Surcharges)
		t.PettyCashSnapshot = t.PettyCashSnapshot.Add(row.PettyCashSnapshot)
		t.TotalByPaymentMethod = t.TotalByPaymentMethod.Add(row.TotalByPaymentMethod)
		t.CollectedAmount = t.CollectedAmount.Add(row.CollectedAmount)
		t.Deposit = t.Deposit.Add(row.Deposit)
		t.PettyCashLive = t.PettyCashLive.Add(row.PettyCashLive)
		t.Stale = t.Stale || row.Stale
	}
	report.Totals.DayName = "TOTAL"
	return &report, nil
}

package reconciliation

import (
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

type LineItemKind string

const (
	KindSales   LineItemKind = "sales"
	KindPayment LineItemKind = "payment"
	KindSummary LineItemKind = "summary"
)

const (
	KeyGrossSales      = "GROSS_SALES"
	KeySurcharges      = "SURCHARGES"
	KeyNetSales        = "NET_SALES"
	KeyCollectedAmount = "COLLECTED_AMOUNT"

	KeyCash   = "CASH"
	KeyAth    = "ATH"
	KeyDebit  = "DEBIT"
	KeyCredit = "CREDIT"

	KeyTotalByPaymentMethod = "TOTAL_BY_PAYMENT_METHOD"
	KeyPettyCashExpenses    = "PETTY_CASH_EXPENSES"
	KeyBalance              = "BALANCE"
	KeyDeposit              = "DEPOSIT"
	KeyFixedFloat           = "FIXED_FLOAT"
)

// LineItem is one stored amount belonging to a daily record.
type LineItem struct {
	Kind         LineItemKind
	Key          string
	Amount       decimal.Decimal
	IsCalculated bool
}

// LineItems lays the entry out as 4 sales, 4 payment and 5 summary rows.
func (e *Entry) LineItems() []LineItem {
	d := e.Derived
	return []LineItem{
		{Kind: KindSales, Key: KeyGrossSales, Amount: e.GrossSales},
		{Kind: KindSales, Key: KeySurcharges, Amount: e.Surcharges},
		{Kind: KindSales, Key: KeyNetSales, Amount: e.NetSales},
		{Kind: KindSales, Key: KeyCollectedAmount, Amount: d.CollectedAmount},

		{Kind: KindPayment, Key: KeyCash, Amount: e.Payments.Cash},
		{Kind: KindPayment, Key: KeyAth, Amount: e.Payments.Ath},
		{Kind: KindPayment, Key: KeyDebit, Amount: e.Payments.Debit},
		{Kind: KindPayment, Key: KeyCredit, Amount: e.Payments.Credit},

		{Kind: KindSummary, Key: KeyTotalByPaymentMethod, Amount: d.TotalByPaymentMethod, IsCalculated: true},
		{Kind: KindSummary, Key: KeyPettyCashExpenses, Amount: d.PettyCashExpenseTotal, IsCalculated: true},
		{Kind: KindSummary, Key: KeyBalance, Amount: d.Balance, IsCalculated: true},
		{Kind: KindSummary, Key: KeyDeposit, Amount: e.Deposit},
		{Kind: KindSummary, Key: KeyFixedFloat, Amount: e.FixedFloat},
	}
}

// EntryFromLineItems rebuilds an entry from stored rows. Stored derived values
// are kept as the snapshot; missing rows read as zero.
func EntryFromLineItems(date utils.DateString, dayName string, items []LineItem) *Entry {
	e := &Entry{Date: date, DayName: dayName}
	for _, it := range items {
		switch it.Kind {
		case KindSales:
			switch it.Key {
			case KeyGrossSales:
				e.GrossSales = it.Amount
			case KeySurcharges:
				e.Surcharges = it.Amount
			case KeyNetSales:
				e.NetSales = it.Amount
			case KeyCollectedAmount:
				e.Derived.CollectedAmount = it.Amount
			}
		case KindPayment:
			switch it.Key {
			case KeyCash:
				e.Payments.Cash = it.Amount
			case KeyAth:
				e.Payments.Ath = it.Amount
			case KeyDebit:
				e.Payments.Debit = it.Amount
			case KeyCredit:
				e.Payments.Credit = it.Amount
			}
		case KindSummary:
			switch it.Key {
			case KeyTotalByPaymentMethod:
				e.Derived.TotalByPaymentMethod = it.Amount
			case KeyPettyCashExpenses:
				e.PettyCashExpenseTotal = it.Amount
				e.Derived.PettyCashExpenseTotal = it.Amount
			case KeyBalance:
				e.Derived.Balance = it.Amount
			case KeyDeposit:
				e.Deposit = it.Amount
			case KeyFixedFloat:
				e.FixedFloat = it.Amount
			}
		}
	}
	return e
}

// Package reconciliation holds the daily cash-reconciliation rules: derived
// figures, the ordered save checks, the edit diff and the mapping of an entry
// to stored line items. Nothing here performs I/O.
package reconciliation

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

// AmountInput is a free-text amount as typed by the operator.
// JSON numbers and strings are both accepted.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = AmountInput(n.String())
	return nil
}

func (a AmountInput) IsBlank() bool {
	return strings.TrimSpace(string(a)) == ""
}

func (a AmountInput) Lenient() decimal.Decimal {
	return utils.LenientAmount(string(a))
}

// Form is the raw daily form as submitted.
type Form struct {
	Date       string      `json:"date"`
	GrossSales AmountInput `json:"gross_sales"`
	Surcharges AmountInput `json:"surcharges"`
	NetSales   AmountInput `json:"net_sales"`
	Cash       AmountInput `json:"cash"`
	Ath        AmountInput `json:"ath"`
	Debit      AmountInput `json:"debit"`
	Credit     AmountInput `json:"credit"`
	FixedFloat AmountInput `json:"fixed_float"`
	Deposit    AmountInput `json:"deposit"`
}

// Payments is the day's split by payment method.
type Payments struct {
	Cash   decimal.Decimal `json:"cash"`
	Ath    decimal.Decimal `json:"ath"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

func (p Payments) Total() decimal.Decimal {
	return p.Cash.Add(p.Ath).Add(p.Debit).Add(p.Credit)
}

// Entry is a parsed daily record with its derived figures.
type Entry struct {
	Date                  utils.DateString `json:"date"`
	DayName               string           `json:"day_name"`
	GrossSales            decimal.Decimal  `json:"gross_sales"`
	Surcharges            decimal.Decimal  `json:"surcharges"`
	NetSales              decimal.Decimal  `json:"net_sales"`
	Payments              Payments         `json:"payments"`
	FixedFloat            decimal.Decimal  `json:"fixed_float"`
	Deposit               decimal.Decimal  `json:"deposit"`
	PettyCashExpenseTotal decimal.Decimal  `json:"petty_cash_expense_total"`
	Derived               Derived          `json:"derived"`
	// ComputedAt is when Derived (and the petty cash snapshot) were frozen.
	ComputedAt time.Time `json:"computed_at"`
}

// Inputs of the derived figures.
func (e *Entry) Inputs() Inputs {
	return Inputs{
		NetSales:   e.NetSales,
		Surcharges: e.Surcharges,
		Payments:   e.Payments,
		PettyCash:  e.PettyCashExpenseTotal,
		FixedFloat: e.FixedFloat,
		Deposit:    e.Deposit,
	}
}

// Recompute refreshes Derived from the current input values.
func (e *Entry) Recompute(now time.Time) {
	e.Derived = ComputeDerived(e.Inputs())
	e.ComputedAt = now
}

// AuditPayload is the value map stored with a CREATE audit entry.
func (e *Entry) AuditPayload() map[string]string {
	out := make(map[string]string, len(trackedFields)+1)
	for _, f := range trackedFields {
		out[f.name] = utils.FormatAmount(f.get(e))
	}
	out[FieldDate] = e.Date.String()
	return out
}

// Form renders the entry back into the raw form it could have come from.
func (e *Entry) Form() Form {
	amount := func(d decimal.Decimal) AmountInput { return AmountInput(utils.FormatAmount(d)) }
	return Form{
		Date:       e.Date.String(),
		GrossSales: amount(e.GrossSales),
		Surcharges: amount(e.Surcharges),
		NetSales:   amount(e.NetSales),
		Cash:       amount(e.Payments.Cash),
		Ath:        amount(e.Payments.Ath),
		Debit:      amount(e.Payments.Debit),
		Credit:     amount(e.Payments.Credit),
		FixedFloat: amount(e.FixedFloat),
		Deposit:    amount(e.Deposit),
	}
}

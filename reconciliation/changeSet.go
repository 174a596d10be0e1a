package reconciliation

import (
	"context"
	"fmt"
	"sort"

	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	FieldDate       = "date"
	FieldGrossSales = "gross_sales"
	FieldSurcharges = "surcharges"
	FieldNetSales   = "net_sales"
	FieldCash       = "cash"
	FieldAth        = "ath"
	FieldDebit      = "debit"
	FieldCredit     = "credit"
	FieldPettyCash  = "petty_cash_expense_total"
	FieldFixedFloat = "fixed_float"
	FieldDeposit    = "deposit"
)

type trackedField struct {
	name string
	get  func(*Entry) decimal.Decimal
}

var trackedFields = []trackedField{
	{FieldGrossSales, func(e *Entry) decimal.Decimal { return e.GrossSales }},
	{FieldSurcharges, func(e *Entry) decimal.Decimal { return e.Surcharges }},
	{FieldNetSales, func(e *Entry) decimal.Decimal { return e.NetSales }},
	{FieldCash, func(e *Entry) decimal.Decimal { return e.Payments.Cash }},
	{FieldAth, func(e *Entry) decimal.Decimal { return e.Payments.Ath }},
	{FieldDebit, func(e *Entry) decimal.Decimal { return e.Payments.Debit }},
	{FieldCredit, func(e *Entry) decimal.Decimal { return e.Payments.Credit }},
	{FieldPettyCash, func(e *Entry) decimal.Decimal { return e.PettyCashExpenseTotal }},
	{FieldFixedFloat, func(e *Entry) decimal.Decimal { return e.FixedFloat }},
	{FieldDeposit, func(e *Entry) decimal.Decimal { return e.Deposit }},
}

type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ChangeSet maps field name to its old and new value, as stored in the UPDATE audit entry.
type ChangeSet map[string]FieldChange

func (c ChangeSet) Count() int {
	return len(c)
}

func (c ChangeSet) IsEmpty() bool {
	return len(c) == 0
}

func (c ChangeSet) DateChanged() bool {
	_, ok := c[FieldDate]
	return ok
}

// Fields returns the changed field names sorted.
func (c ChangeSet) Fields() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyEdit diffs the edited entry against the stored one. Amounts are compared
// at cent precision. An empty diff is ErrNoChanges.
func ApplyEdit(original *Entry, changed *Entry) (ChangeSet, error) {
	changes := ChangeSet{}
	for _, f := range trackedFields {
		oldVal := utils.FormatAmount(f.get(original))
		newVal := utils.FormatAmount(f.get(changed))
		if oldVal != newVal {
			changes[f.name] = FieldChange{Old: oldVal, New: newVal}
		}
	}
	if original.Date != changed.Date {
		changes[FieldDate] = FieldChange{Old: original.Date.String(), New: changed.Date.String()}
	}
	if changes.IsEmpty() {
		return nil, ErrNoChanges
	}
	return changes, nil
}

// UpdateWarning is the confirmation prompt for a non-empty change set.
func UpdateWarning(changes ChangeSet) Warning {
	return Warning{
		Code:    WarningConfirmUpdate,
		Message: fmt.Sprintf("update %d changed field(s)?", changes.Count()),
	}
}

// ConfirmEdit asks the operator to accept the change set.
func ConfirmEdit(ctx context.Context, changes ChangeSet, confirmer Confirmer) error {
	w := UpdateWarning(changes)
	if !confirmer.Confirm(ctx, w) {
		return &DeclinedError{Warning: w}
	}
	return nil
}

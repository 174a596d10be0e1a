package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

var (
	mismatchRatio   = decimal.New(1, -2) // 1% of the collected amount
	mismatchMinimum = decimal.New(5, -1) // but never less than 0.50
)

// ParseForm applies the hard checks and builds an entry with fresh derived figures.
// Checks run in order: required sales fields, date, then every amount for
// parseability and sign.
func ParseForm(form Form, pettyCash decimal.Decimal, now time.Time) (*Entry, error) {
	gross, okGross := utils.ParseAmount(string(form.GrossSales))
	net, okNet := utils.ParseAmount(string(form.NetSales))
	if !okGross || !okNet {
		return nil, ErrMissingSalesFields
	}

	date, err := utils.ParseDateString(form.Date)
	if err != nil {
		return nil, &FieldError{Field: FieldDate, Err: err}
	}
	dayName, err := date.DayName()
	if err != nil {
		return nil, &FieldError{Field: FieldDate, Err: err}
	}

	entry := &Entry{
		Date:                  date,
		DayName:               dayName,
		GrossSales:            gross,
		NetSales:              net,
		PettyCashExpenseTotal: pettyCash,
	}
	if gross.IsNegative() {
		return nil, &FieldError{Field: FieldGrossSales, Err: ErrNegativeAmount}
	}
	if net.IsNegative() {
		return nil, &FieldError{Field: FieldNetSales, Err: ErrNegativeAmount}
	}

	optional := []struct {
		field string
		raw   AmountInput
		dest  *decimal.Decimal
	}{
		{FieldSurcharges, form.Surcharges, &entry.Surcharges},
		{FieldCash, form.Cash, &entry.Payments.Cash},
		{FieldAth, form.Ath, &entry.Payments.Ath},
		{FieldDebit, form.Debit, &entry.Payments.Debit},
		{FieldCredit, form.Credit, &entry.Payments.Credit},
		{FieldFixedFloat, form.FixedFloat, &entry.FixedFloat},
		{FieldDeposit, form.Deposit, &entry.Deposit},
	}
	for _, a := range optional {
		if a.raw.IsBlank() {
			*a.dest = decimal.Zero
			continue
		}
		v, ok := utils.ParseAmount(string(a.raw))
		if !ok {
			return nil, &FieldError{Field: a.field, Err: ErrInvalidAmount}
		}
		if v.IsNegative() {
			return nil, &FieldError{Field: a.field, Err: ErrNegativeAmount}
		}
		*a.dest = v
	}

	entry.Recompute(now)
	return entry, nil
}

// PendingWarnings lists, in prompt order, every soft check the entry raises.
// The generic save confirmation is always present.
func PendingWarnings(entry *Entry, existingDateRecordExists bool) []Warning {
	var warnings []Warning

	if entry.NetSales.GreaterThan(entry.GrossSales) {
		warnings = append(warnings, Warning{
			Code:    WarningNetExceedsGross,
			Message: "net sales exceed gross sales, proceed anyway?",
		})
	}

	collected := entry.Derived.CollectedAmount
	total := entry.Derived.TotalByPaymentMethod
	difference := total.Sub(collected).Abs()
	threshold := decimal.Max(collected.Mul(mismatchRatio), mismatchMinimum)
	if difference.GreaterThan(threshold) {
		diff := difference
		warnings = append(warnings, Warning{
			Code: WarningPaymentMismatch,
			Message: fmt.Sprintf("payment methods total (%s) does not match collected amount (%s), difference %s, proceed anyway?",
				utils.FormatAmount(total), utils.FormatAmount(collected), utils.FormatAmount(difference)),
			Amount: &diff,
		})
	}

	if entry.Derived.Balance.IsNegative() {
		balance := entry.Derived.Balance
		warnings = append(warnings, Warning{
			Code:    WarningNegativeBalance,
			Message: fmt.Sprintf("balance would be negative (%s), proceed anyway?", utils.FormatAmount(balance)),
			Amount:  &balance,
		})
	}

	warnings = append(warnings, Warning{
		Code:    WarningConfirmSave,
		Message: fmt.Sprintf("save the record for %s %s?", entry.DayName, entry.Date),
	})

	if existingDateRecordExists {
		warnings = append(warnings, Warning{
			Code:    WarningDuplicateDate,
			Message: fmt.Sprintf("a record already exists for %s, create a duplicate?", entry.Date),
		})
	}

	return warnings
}

// ValidateForSave runs the hard checks, then asks for each soft warning in order.
// The first declined warning aborts with a *DeclinedError. On success the
// returned entry carries derived figures frozen at validation time.
func ValidateForSave(ctx context.Context, form Form, pettyCash decimal.Decimal, existingDateRecordExists bool, confirmer Confirmer, now time.Time) (*Entry, error) {
	entry, err := ParseForm(form, pettyCash, now)
	if err != nil {
		return nil, err
	}
	for _, w := range PendingWarnings(entry, existingDateRecordExists) {
		if !confirmer.Confirm(ctx, w) {
			return nil, &DeclinedError{Warning: w}
		}
	}
	return entry, nil
}

package reconciliation

import (
	"github.com/shopspring/decimal"
)

// balanceEpsilon: balances smaller than a cent in magnitude are shown as zero.
var balanceEpsilon = decimal.New(1, -2)

type Inputs struct {
	NetSales   decimal.Decimal
	Surcharges decimal.Decimal
	Payments   Payments
	PettyCash  decimal.Decimal
	FixedFloat decimal.Decimal
	Deposit    decimal.Decimal
}

type Derived struct {
	CollectedAmount       decimal.Decimal `json:"collected_amount"`
	TotalByPaymentMethod  decimal.Decimal `json:"total_by_payment_method"`
	PettyCashExpenseTotal decimal.Decimal `json:"petty_cash_expense_total"`
	Balance               decimal.Decimal `json:"balance"`
}

// ComputeDerived is exact; rounding to cents happens only when formatting.
func ComputeDerived(in Inputs) Derived {
	balance := in.Payments.Cash.Sub(in.PettyCash).Sub(in.FixedFloat).Sub(in.Deposit)
	if balance.Abs().LessThan(balanceEpsilon) {
		balance = decimal.Zero
	}
	return Derived{
		CollectedAmount:       in.NetSales.Add(in.Surcharges),
		TotalByPaymentMethod:  in.Payments.Total(),
		PettyCashExpenseTotal: in.PettyCash,
		Balance:               balance,
	}
}

// PreviewInputs reads a form leniently: blank or unparsable amounts count as
// zero so live feedback never fails.
func PreviewInputs(form Form, pettyCash decimal.Decimal) Inputs {
	return Inputs{
		NetSales:   form.NetSales.Lenient(),
		Surcharges: form.Surcharges.Lenient(),
		Payments: Payments{
			Cash:   form.Cash.Lenient(),
			Ath:    form.Ath.Lenient(),
			Debit:  form.Debit.Lenient(),
			Credit: form.Credit.Lenient(),
		},
		PettyCash:  pettyCash,
		FixedFloat: form.FixedFloat.Lenient(),
		Deposit:    form.Deposit.Lenient(),
	}
}

package reconciliation

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type WarningCode string

const (
	WarningNetExceedsGross WarningCode = "NET_EXCEEDS_GROSS"
	WarningPaymentMismatch WarningCode = "PAYMENT_MISMATCH"
	WarningNegativeBalance WarningCode = "NEGATIVE_BALANCE"
	WarningConfirmSave     WarningCode = "CONFIRM_SAVE"
	WarningDuplicateDate   WarningCode = "DUPLICATE_DATE"
	WarningConfirmUpdate   WarningCode = "CONFIRM_UPDATE"
)

// Warning is a business-sense check the operator must explicitly accept.
type Warning struct {
	Code    WarningCode      `json:"code"`
	Message string           `json:"message"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// Confirmer answers one yes/no prompt per warning.
type Confirmer interface {
	Confirm(ctx context.Context, w Warning) bool
}

type ConfirmFunc func(ctx context.Context, w Warning) bool

func (f ConfirmFunc) Confirm(ctx context.Context, w Warning) bool {
	return f(ctx, w)
}

var (
	AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, Warning) bool { return true })
	NeverConfirm  Confirmer = ConfirmFunc(func(context.Context, Warning) bool { return false })
)

// Acknowledged confirms exactly the warning codes the client sent back.
type Acknowledged map[WarningCode]struct{}

func NewAcknowledged(codes ...string) Acknowledged {
	ack := make(Acknowledged, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			ack[WarningCode(c)] = struct{}{}
		}
	}
	return ack
}

func (a Acknowledged) Confirm(_ context.Context, w Warning) bool {
	_, ok := a[w.Code]
	return ok
}

// Missing lists the warnings that were not acknowledged, in order.
func (a Acknowledged) Missing(warnings []Warning) []Warning {
	var out []Warning
	for _, w := range warnings {
		if _, ok := a[w.Code]; !ok {
			out = append(out, w)
		}
	}
	return out
}

package reconciliation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedEntry(t *testing.T, form Form, pettyCash decimal.Decimal) *Entry {
	t.Helper()
	e, err := ParseForm(form, pettyCash, fixedNow)
	require.NoError(t, err)
	return e
}

func TestApplyEditNoChanges(t *testing.T) {
	original := parsedEntry(t, balancedForm(), dec("10"))

	form := balancedForm()
	form.Cash = "300" // same value at cent precision
	changed := parsedEntry(t, form, dec("10.00"))

	changes, err := ApplyEdit(original, changed)
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Equal(t, "no changes detected", err.Error())
	assert.Nil(t, changes)
}

func TestApplyEditDiff(t *testing.T) {
	original := parsedEntry(t, balancedForm(), dec("10"))

	form := balancedForm()
	form.Cash = "310.00"
	form.Date = "2024-03-05"
	changed := parsedEntry(t, form, dec("4"))

	changes, err := ApplyEdit(original, changed)
	require.NoError(t, err)
	assert.Equal(t, 3, changes.Count())
	assert.True(t, changes.DateChanged())
	assert.Equal(t, FieldChange{Old: "300.00", New: "310.00"}, changes[FieldCash])
	assert.Equal(t, FieldChange{Old: "10.00", New: "4.00"}, changes[FieldPettyCash])
	assert.Equal(t, FieldChange{Old: "2024-03-04", New: "2024-03-05"}, changes[FieldDate])
	assert.Equal(t, []string{FieldCash, FieldDate, FieldPettyCash}, changes.Fields())
}

func TestConfirmEdit(t *testing.T) {
	changes := ChangeSet{FieldCash: {Old: "1.00", New: "2.00"}, FieldDeposit: {Old: "0.00", New: "5.00"}}

	confirmer := &recordingConfirmer{}
	require.NoError(t, ConfirmEdit(context.Background(), changes, confirmer))
	assert.Equal(t, []WarningCode{WarningConfirmUpdate}, confirmer.asked)

	err := ConfirmEdit(context.Background(), changes, NeverConfirm)
	declined, ok := IsDeclined(err)
	require.True(t, ok)
	assert.Contains(t, declined.Warning.Message, "2")
}

func TestEntryFormReparsesUnchanged(t *testing.T) {
	original := parsedEntry(t, balancedForm(), dec("12.50"))

	again := parsedEntry(t, original.Form(), dec("12.50"))
	_, err := ApplyEdit(original, again)
	assert.ErrorIs(t, err, ErrNoChanges)

	// only the live petty cash moved
	refreshed := parsedEntry(t, original.Form(), dec("20"))
	changes, err := ApplyEdit(original, refreshed)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldPettyCash}, changes.Fields())
}

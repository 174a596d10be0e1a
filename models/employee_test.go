package models

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeePaymentTypeAliases(t *testing.T) {
	var input NewEmployeePayment
	require.NoError(t, json.Unmarshal([]byte(`{"employee_id":1,"date":"2024-03-04","payment_type":"transferencia","amount":"10"}`), &input))
	assert.Equal(t, EmployeePaymentTypeBankTransfer, input.PaymentType)

	require.NoError(t, json.Unmarshal([]byte(`{"payment_type":"cash"}`), &input))
	assert.Equal(t, EmployeePaymentTypeCash, input.PaymentType)

	assert.Error(t, json.Unmarshal([]byte(`{"payment_type":"cheque"}`), &input))
}

func TestEmployeePaymentTotals(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	juan, err := CreateEmployee(ctx, &NewEmployee{Name: "Juan"})
	require.NoError(t, err)
	ana, err := CreateEmployee(ctx, &NewEmployee{Name: "Ana"})
	require.NoError(t, err)
	_, err = CreateEmployee(ctx, &NewEmployee{Name: " "})
	assert.Equal(t, "required", utils.ProcessValidationErrors(err)["Name"])

	payments := []NewEmployeePayment{
		{EmployeeId: juan.ID, Date: "2024-03-04", PaymentType: EmployeePaymentTypeCash, Amount: dec("100")},
		{EmployeeId: juan.ID, Date: "2024-03-05", PaymentType: EmployeePaymentTypeBankTransfer, Amount: dec("50.50")},
		{EmployeeId: ana.ID, Date: "2024-03-05", PaymentType: EmployeePaymentTypeCash, Amount: dec("20")},
		{EmployeeId: ana.ID, Date: "2024-04-01", PaymentType: EmployeePaymentTypeCash, Amount: dec("999")},
	}
	for i := range payments {
		_, err := CreateEmployeePayment(ctx, &payments[i])
		require.NoError(t, err)
	}

	_, err = CreateEmployeePayment(ctx, &NewEmployeePayment{EmployeeId: juan.ID, Date: "2024-03-04", PaymentType: EmployeePaymentTypeCash, Amount: dec("-1")})
	assert.ErrorIs(t, err, ErrorAmountNotPositive)
	_, err = CreateEmployeePayment(ctx, &NewEmployeePayment{EmployeeId: 999, Date: "2024-03-04", PaymentType: EmployeePaymentTypeCash, Amount: dec("1")})
	assert.EqualError(t, err, "employee not found")

	totals, err := GetEmployeePaymentTotals(ctx, EmployeePaymentFilter{FromDate: "2024-03-01", ToDate: "2024-03-31"})
	require.NoError(t, err)
	require.Len(t, totals.Employees, 2)
	assert.Equal(t, "Ana", totals.Employees[0].EmployeeName)
	assert.Equal(t, "20.00", totals.Employees[0].Total.StringFixed(2))
	assert.Equal(t, "100.00", totals.Employees[1].Cash.StringFixed(2))
	assert.Equal(t, "50.50", totals.Employees[1].BankTransfer.StringFixed(2))
	assert.Equal(t, "150.50", totals.Employees[1].Total.StringFixed(2))
	assert.Equal(t, "120.00", totals.Cash.StringFixed(2))
	assert.Equal(t, "170.50", totals.Total.StringFixed(2))

	list, err := ListEmployeePayments(ctx, EmployeePaymentFilter{EmployeeId: juan.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Employee)
	assert.Equal(t, "Juan", list[0].Employee.Name)

	_, err = DeleteEmployeePayment(ctx, list[0].ID)
	require.NoError(t, err)
	_, err = DeleteEmployeePayment(ctx, list[0].ID)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

package models

import (
	"encoding/json"
	"errors"
	"strings"
)

type EmployeePaymentType string

const (
	EmployeePaymentTypeCash         EmployeePaymentType = "CASH"
	EmployeePaymentTypeBankTransfer EmployeePaymentType = "BANK_TRANSFER"
)

func (t EmployeePaymentType) IsValid() bool {
	return t == EmployeePaymentTypeCash || t == EmployeePaymentTypeBankTransfer
}

// convert input to enum type; the shop's own labels are accepted as aliases
func (t *EmployeePaymentType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("payment type must be string")
	}
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "CASH", "EFECTIVO":
		*t = EmployeePaymentTypeCash
	case "BANK_TRANSFER", "TRANSFERENCIA", "TRANSFER":
		*t = EmployeePaymentTypeBankTransfer
	default:
		return ErrorInvalidPaymentType
	}
	return nil
}

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportFormatJSON:
		return ExportFormatJSON, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatXLSX:
		return ExportFormatXLSX, nil
	}
	return "", errors.New("invalid export format")
}

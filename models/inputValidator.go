package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrorAmountNotPositive  = errors.New("amount must be greater than zero")
	ErrorInvalidPaymentType = errors.New("invalid payment type")
	ErrorEmployeeNotFound   = errors.New("employee not found")
	ErrorCategoryExists     = errors.New("category already exists")
)

// IsInputError reports errors caused by the request content.
func IsInputError(err error) bool {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return true
	}
	return errors.Is(err, ErrorAmountNotPositive) ||
		errors.Is(err, ErrorInvalidPaymentType) ||
		errors.Is(err, ErrorEmployeeNotFound) ||
		errors.Is(err, ErrorCategoryExists) ||
		errors.Is(err, utils.ErrorInvalidDate)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("datestring", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseDateString(fl.Field().String())
		return err == nil
	})
	return v
}

// validateInput returns validator.ValidationErrors for struct tag failures.
func validateInput(input interface{}) error {
	return validate.Struct(input)
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrorAmountNotPositive
	}
	return nil
}

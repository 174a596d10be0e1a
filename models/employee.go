package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewEmployee struct {
	Name string `json:"name" validate:"required,max=100"`
}

type EmployeePayment struct {
	ID          int                 `gorm:"primary_key" json:"id"`
	EmployeeId  int                 `gorm:"index;not null" json:"employee_id"`
	Employee    *Employee           `gorm:"foreignKey:EmployeeId" json:"employee,omitempty"`
	Date        utils.DateString    `gorm:"size:10;not null;index" json:"date"`
	PaymentType EmployeePaymentType `gorm:"size:20;not null" json:"payment_type"`
	Amount      decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

type NewEmployeePayment struct {
	EmployeeId  int                 `json:"employee_id" validate:"required,gt=0"`
	Date        string              `json:"date" validate:"required,datestring"`
	PaymentType EmployeePaymentType `json:"payment_type" validate:"required"`
	Amount      decimal.Decimal     `json:"amount"`
}

type EmployeePaymentFilter struct {
	FromDate   utils.DateString
	ToDate     utils.DateString
	EmployeeId int
}

type EmployeePaymentTotal struct {
	EmployeeId   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Cash         decimal.Decimal `json:"cash"`
	BankTransfer decimal.Decimal `json:"bank_transfer"`
	Total        decimal.Decimal `json:"total"`
}

type EmployeePaymentTotals struct {
	Employees    []*EmployeePaymentTotal `json:"employees"`
	Cash         decimal.Decimal         `json:"cash"`
	BankTransfer decimal.Decimal         `json:"bank_transfer"`
	Total        decimal.Decimal         `json:"total"`
}

func (f EmployeePaymentFilter) apply(db *gorm.DB) *gorm.DB {
	if !f.FromDate.IsZero() {
		db = db.Where("date >= ?", f.FromDate)
	}
	if !f.ToDate.IsZero() {
		db = db.Where("date <= ?", f.ToDate)
	}
	if f.EmployeeId > 0 {
		db = db.Where("employee_id = ?", f.EmployeeId)
	}
	return db
}

func CreateEmployee(ctx context.Context, input *NewEmployee) (*Employee, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	employee := Employee{Name: input.Name}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func ListEmployees(ctx context.Context) ([]*Employee, error) {
	db := config.GetDB()
	var results []*Employee
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func CreateEmployeePayment(ctx context.Context, input *NewEmployeePayment) (*EmployeePayment, error) {
	input.Date = strings.TrimSpace(input.Date)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.PaymentType.IsValid() {
		return nil, ErrorInvalidPaymentType
	}
	if err := requirePositive(input.Amount); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Employee{}).Where("id = ?", input.EmployeeId).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrorEmployeeNotFound
	}

	payment := EmployeePayment{
		EmployeeId:  input.EmployeeId,
		Date:        utils.DateString(input.Date),
		PaymentType: input.PaymentType,
		Amount:      input.Amount,
	}
	if err := db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func DeleteEmployeePayment(ctx context.Context, id int) (*EmployeePayment, error) {
	db := config.GetDB()
	var payment EmployeePayment
	if err := db.WithContext(ctx).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func ListEmployeePayments(ctx context.Context, filter EmployeePaymentFilter) ([]*EmployeePayment, error) {
	db := config.GetDB().WithContext(ctx)
	var results []*EmployeePayment
	if err := filter.apply(db).Preload("Employee").Order("date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetEmployeePaymentTotals splits the filtered payments per employee and type.
// Every employee is listed, with zeros when nothing matched.
func GetEmployeePaymentTotals(ctx context.Context, filter EmployeePaymentFilter) (*EmployeePaymentTotals, error) {
	employees, err := ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := ListEmployeePayments(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := EmployeePaymentTotals{}
	byEmployee := make(map[int]*EmployeePaymentTotal, len(employees))
	for _, e := range employees {
		if filter.EmployeeId > 0 && e.ID != filter.EmployeeId {
			continue
		}
		row := &EmployeePaymentTotal{EmployeeId: e.ID, EmployeeName: e.Name}
		byEmployee[e.ID] = row
		result.Employees = append(result.Employees, row)
	}
	for _, p := range payments {
		row, ok := byEmployee[p.EmployeeId]
		if !ok {
			continue
		}
		switch p.PaymentType {
		case EmployeePaymentTypeCash:
			row.Cash = row.Cash.Add(p.Amount)
			result.Cash = result.Cash.Add(p.Amount)
		case EmployeePaymentTypeBankTransfer:
			row.BankTransfer = row.BankTransfer.Add(p.Amount)
			result.BankTransfer = result.BankTransfer.Add(p.Amount)
		}
		row.Total = row.Cash.Add(row.BankTransfer)
	}
	result.Total = result.Cash.Add(result.BankTransfer)
	return &result, nil
}

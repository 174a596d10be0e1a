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

// PettyCashRecord is one out-of-till expense ("caja menor").
type PettyCashRecord struct {
	ID        int              `gorm:"primary_key" json:"id"`
	Date      utils.DateString `gorm:"size:10;not null;index" json:"date"`
	Category  string           `gorm:"size:100;not null;index" json:"category"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Amount    decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedBy string           `gorm:"size:100" json:"created_by"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPettyCashRecord struct {
	Date     string          `json:"date" validate:"required,datestring"`
	Category string          `json:"category" validate:"required,max=100"`
	Name     string          `json:"name" validate:"required,max=255"`
	Amount   decimal.Decimal `json:"amount"`
}

type PettyCashCategory struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewPettyCashCategory struct {
	Name string `json:"name" validate:"required,max=100"`
}

type PettyCashFilter struct {
	FromDate utils.DateString
	ToDate   utils.DateString
	Category string
}

type PettyCashList struct {
	Records []*PettyCashRecord `json:"records"`
	Total   decimal.Decimal    `json:"total"`
}

func (input *NewPettyCashRecord) normalize() {
	input.Date = strings.TrimSpace(input.Date)
	input.Category = strings.TrimSpace(input.Category)
	input.Name = strings.TrimSpace(input.Name)
}

func (input *NewPettyCashRecord) validate() error {
	input.normalize()
	if err := validateInput(input); err != nil {
		return err
	}
	return requirePositive(input.Amount)
}

func (f PettyCashFilter) apply(db *gorm.DB) *gorm.DB {
	if !f.FromDate.IsZero() {
		db = db.Where("date >= ?", f.FromDate)
	}
	if !f.ToDate.IsZero() {
		db = db.Where("date <= ?", f.ToDate)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	return db
}

// sumPettyCash adds amounts in Go to keep decimal precision on every driver.
func sumPettyCash(db *gorm.DB, filter PettyCashFilter) (decimal.Decimal, error) {
	if !db.Migrator().HasTable(&PettyCashRecord{}) {
		return decimal.Zero, nil
	}
	var amounts []decimal.Decimal
	if err := filter.apply(db.Model(&PettyCashRecord{})).Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

func CreatePettyCashRecord(ctx context.Context, input *NewPettyCashRecord) (*PettyCashRecord, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	record := PettyCashRecord{
		Date:      utils.DateString(input.Date),
		Category:  input.Category,
		Name:      input.Name,
		Amount:    input.Amount,
		CreatedBy: utils.ActorFromContext(ctx),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func UpdatePettyCashRecord(ctx context.Context, id int, input *NewPettyCashRecord) (*PettyCashRecord, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	record, err := GetPettyCashRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(record).Updates(map[string]interface{}{
		"Date":     utils.DateString(input.Date),
		"Category": input.Category,
		"Name":     input.Name,
		"Amount":   input.Amount,
	}).Error
	if err != nil {
		return nil, err
	}
	return GetPettyCashRecord(ctx, id)
}

func DeletePettyCashRecord(ctx context.Context, id int) (*PettyCashRecord, error) {
	record, err := GetPettyCashRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func GetPettyCashRecord(ctx context.Context, id int) (*PettyCashRecord, error) {
	db := config.GetDB()
	var record PettyCashRecord
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListPettyCashRecords returns matching rows newest first, with their total.
func ListPettyCashRecords(ctx context.Context, filter PettyCashFilter) (*PettyCashList, error) {
	db := config.GetDB().WithContext(ctx)
	var records []*PettyCashRecord
	if err := filter.apply(db).Order("date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return &PettyCashList{Records: records, Total: total}, nil
}

func SumPettyCash(ctx context.Context, filter PettyCashFilter) (decimal.Decimal, error) {
	return sumPettyCash(config.GetDB().WithContext(ctx), filter)
}

func CreatePettyCashCategory(ctx context.Context, input *NewPettyCashCategory) (*PettyCashCategory, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&PettyCashCategory{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorCategoryExists
	}
	category := PettyCashCategory{Name: input.Name}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func ListPettyCashCategories(ctx context.Context) ([]*PettyCashCategory, error) {
	db := config.GetDB()
	var results []*PettyCashCategory
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeletePettyCashCategory removes the lookup entry only; existing records keep their text.
func DeletePettyCashCategory(ctx context.Context, id int) (*PettyCashCategory, error) {
	db := config.GetDB()
	var category PettyCashCategory
	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// SeedPettyCashCategories fills an empty category table with the configured defaults.
func SeedPettyCashCategories(ctx context.Context, db *gorm.DB, names []string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&PettyCashCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range utils.UniqueSlice(names) {
		if err := db.WithContext(ctx).Create(&PettyCashCategory{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

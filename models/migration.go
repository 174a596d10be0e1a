package models

import (
	"context"
	"log"

	"github.com/mmdatafocus/dailycash_backend/config"
	"gorm.io/gorm"
)

func MigrateTable() {
	db := config.GetDB()

	if err := AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := SeedPettyCashCategories(context.Background(), db, config.DefaultPettyCashCategories()); err != nil {
		log.Fatal(err)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&DailyRecord{}, &SalesData{}, &PaymentMethod{}, &SummaryData{},
		&AuditLog{},
		&PettyCashRecord{}, &PettyCashCategory{},
		&Employee{}, &EmployeePayment{},
		&User{},
	)
}

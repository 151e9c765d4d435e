package client

import (
	"log"
	"taqsit/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Customer{},
		&model.InstallmentPlan{},
		&model.Installment{},
		&model.CashLedgerEntry{},
		&model.Subscription{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}

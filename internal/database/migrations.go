package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Business{},
		&models.BusinessPreference{},
		&models.Account{},
		&models.VerificationToken{},
		&models.AuthMetaData{},
		&models.Customer{},
		&models.Wallet{},
		&models.Contribution{},
		&models.Asset{},
		&models.TransactionTypeSetting{},
		&models.Transaction{},
		&models.TransactionApproval{},
		&models.AppModule{},
		&models.AppConfig{},
		&models.CacheEntry{},
	)
}

// SeedData populates the default application modules.
func SeedData(db *gorm.DB) error {
	modules := []models.AppModule{
		{
			Name:        "customers",
			Description: "Customer records and wallets",
			Permissions: []string{"customers.view", "customers.manage"},
			IsActive:    true,
		},
		{
			Name:        "transactions",
			Description: "Deposits, payouts, loans and approvals",
			Permissions: []string{"transactions.view", "transactions.create", "transactions.approve"},
			IsActive:    true,
		},
		{
			Name:        "assets",
			Description: "Business asset register",
			Permissions: []string{"assets.view", "assets.manage"},
			IsActive:    true,
		},
	}

	for _, module := range modules {
		if err := db.Where(models.AppModule{Name: module.Name}).Attrs(module).FirstOrCreate(&models.AppModule{}).Error; err != nil {
			return err
		}
	}

	return nil
}

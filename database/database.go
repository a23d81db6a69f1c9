package database

import (
	"fmt"
	"os"

	"fidelo-backend/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=fidelo port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Shop{},
		&models.Caisse{},
		&models.Cashback{},
		&models.UserCashback{},
		&models.Voucher{},
		&models.TransactionFidelityCard{},
		&models.SponsoringWallet{},
		&models.Promotion{},
		&models.Setting{},
		&models.SettingSponsoring{},
		&models.Otp{},
	)
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@fidelo.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existing models.Admin
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Email:    adminEmail,
		Password: string(hashedPassword),
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", adminEmail).Msg("default admin created")
	return nil
}

// EnsureDefaultSettings creates the singleton Setting and SettingSponsoring
// rows when they do not exist yet. Amounts stay at zero until an admin
// configures them.
func EnsureDefaultSettings(db *gorm.DB) error {
	var setting models.Setting
	if err := db.First(&setting, models.SettingID).Error; err != nil {
		if err := db.Create(&models.Setting{ID: models.SettingID}).Error; err != nil {
			return err
		}
	}

	var sponsoring models.SettingSponsoring
	if err := db.First(&sponsoring, models.SettingID).Error; err != nil {
		if err := db.Create(&models.SettingSponsoring{ID: models.SettingID}).Error; err != nil {
			return err
		}
	}

	return nil
}

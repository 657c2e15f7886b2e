package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clipperhub/barbershop-platform/internal/config"
	"github.com/clipperhub/barbershop-platform/internal/logger"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.L().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.L().Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db
}

// Migrate is separate from NewDB so tests can run it against their own
// database handles.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Subscription{},
		&models.SubscriptionHistory{},
		&models.Activity{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
		&models.LoginHistory{},
		&models.ShopAppointment{},
		&models.ShopSale{},
		&models.ShopStaff{},
		&models.ShopCustomer{},
		&models.ShopInventoryItem{},
		&models.ShopService{},
	)
}

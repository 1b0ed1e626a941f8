package database

import (
	"log"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Booking{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// At most one active booking per user and event; cancelled rows don't count.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active
		ON bookings (event_id, user_id)
		WHERE status <> 'cancelled'
	`).Error; err != nil {
		log.Fatalf("failed to create booking index: %v", err)
	}

	return db
}

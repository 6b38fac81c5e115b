package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/psi-scheduler/internal/config"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// SlotIndex keeps at most one scheduled appointment per psychologist, date
// and time.
const SlotIndex = "ux_appointments_scheduled_slot"

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger: logger.New(&log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate creates or updates every table and the slot index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Appointment{},
		&models.Request{},
		&models.Schedule{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.RefreshToken{},
		&models.AuditLog{},
		&models.Report{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// older rows used the british spelling
	if err := db.Exec(`
        UPDATE appointments
        SET status = 'canceled'
        WHERE status = 'cancelled'
    `).Error; err != nil {
		return fmt.Errorf("normalize statuses: %w", err)
	}

	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS ` + SlotIndex + `
        ON appointments (psychologist_id, date, time)
        WHERE status = 'scheduled'
    `).Error; err != nil {
		return fmt.Errorf("create %s: %w", SlotIndex, err)
	}

	return nil
}

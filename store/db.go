// Package store persists content, submissions, settings and identity through gorm.
// file: store/db.go
package store

import (
	"fmt"
	"time"

	"founders-fest/config"
	"founders-fest/logger"
	"founders-fest/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.Warn, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// one connection keeps :memory: databases shared and writes serialized
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info.Printf("[store.Open] Connected to %s database", dialector.Name())
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Attendee{},
		&models.StallBooking{},
		&models.AwardNomination{},
		&models.ContactQuery{},
		&models.HomeSettings{},
		&models.AboutSection{},
		&models.EmailSettings{},
		&models.Delivery{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	for _, table := range []string{models.AwardsContentTable, models.ContactInfoTable} {
		if err := db.Table(table).AutoMigrate(&models.KeyValue{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}
	}

	for _, def := range collectionDefs {
		if err := db.Table(def.table).AutoMigrate(def.model()); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", def.table, err)
		}
	}

	logger.Info.Println("[store.Migrate] Schema is up to date")
	return nil
}

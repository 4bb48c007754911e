package main

import (
	"fmt"
	"log/slog"

	"gastos/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openStore connects to Postgres and returns the handle. The handle is
// constructed once at startup and shared by reference; nothing else in the
// package opens connections.
func openStore(cfg *Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Warn("migration warning (users)", "error", err)
		}
		if err := db.AutoMigrate(&models.Transaction{}); err != nil {
			log.Warn("migration warning (transactions)", "error", err)
		}
	}
	return db, nil
}

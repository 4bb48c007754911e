package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is an optional overlay; already-set variables win.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Support a lightweight migrate command: `./gastos migrate`
	// runs AutoMigrate and exits, regardless of DB_AUTO_MIGRATE.
	// Useful for CI or manual DB setup.
	migrateOnly := len(os.Args) > 1 && os.Args[1] == "migrate"
	if migrateOnly {
		cfg.AutoMigrate = true
	}

	db, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	if migrateOnly {
		logger.Info("migration completed")
		return
	}

	app := NewApp(db, cfg, logger)

	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")
	app.setupRoutes(r)

	logger.Info("starting server", "port", cfg.Port, "google_oauth", cfg.GoogleOAuthEnabled())
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

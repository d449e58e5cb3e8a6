package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/mineboard/internal/app"
	"github.com/vancomm/mineboard/internal/config"
	"github.com/vancomm/mineboard/internal/database"
	"github.com/vancomm/mineboard/internal/logging"
	"github.com/vancomm/mineboard/migrations"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	log, err := logging.New(config.NewLogging())
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to read config")
	}

	var db *pgxpool.Pool
	if config.DatabaseConfigured() {
		var status database.MigrationStatus
		db, status, err = database.ConnectAndMigrate(ctx, migrations.FS)
		if err != nil {
			log.WithError(err).Fatal("failed to connect and migrate db")
		}
		defer db.Close()
		log.WithField("version", status.Version).Debug("database migrated")
	} else {
		log.Warn("no database configured, game history is disabled")
	}

	if err := app.New(log, cfg, db).Start(ctx); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

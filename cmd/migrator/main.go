package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/mineboard/internal/config"
	"github.com/vancomm/mineboard/internal/database"
	"github.com/vancomm/mineboard/internal/logging"
	"github.com/vancomm/mineboard/migrations"
)

func main() {
	_ = godotenv.Load()

	log, err := logging.New(config.NewLogging())
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db, status, err := database.ConnectAndMigrate(ctx, migrations.FS)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to db")
	}
	defer db.Close()

	log.WithFields(logrus.Fields{
		"version": status.Version,
		"dirty":   status.Dirty,
	}).Info("migration successful")
}

// Command remind runs a single reminder sweep and exits. It is meant to be
// invoked from cron or a container scheduler; the API server exposes the same
// sweep at POST /api/send-reminders.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/caresync/clinic-scheduler/internal/appointments"
	appconfig "github.com/caresync/clinic-scheduler/internal/config"
	"github.com/caresync/clinic-scheduler/internal/notify"
	"github.com/caresync/clinic-scheduler/internal/reminders"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Error("invalid clinic timezone", "timezone", cfg.ClinicTimezone, "error", err)
		os.Exit(1)
	}

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := appointments.NewPostgresRepository(pool)

	var email notify.EmailSender = notify.NewStubEmailSender(logger)
	if cfg.EmailProvider == "sendgrid" {
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			email = sender
		}
	}
	notifier := notify.NewService(email, nil, cfg.ClinicName, loc, logger)

	sweep := reminders.NewService(repo, notifier, loc, cfg.ReminderLookahead, nil, logger)
	sent, err := sweep.Run(ctx)
	if err != nil {
		logger.Error("reminder sweep failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Sent %d reminders.\n", sent)
}

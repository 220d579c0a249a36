package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caresync/clinic-scheduler/internal/api/router"
	"github.com/caresync/clinic-scheduler/internal/appointments"
	appconfig "github.com/caresync/clinic-scheduler/internal/config"
	"github.com/caresync/clinic-scheduler/internal/gcal"
	"github.com/caresync/clinic-scheduler/internal/notify"
	"github.com/caresync/clinic-scheduler/internal/observability/metrics"
	"github.com/caresync/clinic-scheduler/internal/reminders"
	"github.com/caresync/clinic-scheduler/internal/schedule"
	"github.com/caresync/clinic-scheduler/internal/summarize"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Error("invalid clinic timezone", "timezone", cfg.ClinicTimezone, "error", err)
		os.Exit(1)
	}

	// Database
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	// Slot configuration
	tmpl := schedule.DefaultTemplate()
	if cfg.DoctorSlotsJSON != "" {
		tmpl, err = schedule.ParseDoctorsJSON([]byte(cfg.DoctorSlotsJSON))
		if err != nil {
			logger.Error("invalid DOCTOR_SLOTS_JSON", "error", err)
			os.Exit(1)
		}
	}

	repo := appointments.NewPostgresRepository(pool)
	finder := schedule.NewFinder(tmpl, repo, loc, cfg.SearchHorizonDays)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedMetrics := metrics.NewSchedulingMetrics(registry)

	// Summarizer: Gemini when configured, deterministic stub otherwise.
	var summarizer appointments.Summarizer = summarize.StubSummarizer{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := summarize.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, logger)
		if err != nil {
			logger.Error("failed to initialize Gemini summarizer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		summarizer = gemini
	}

	// Calendar: Google Calendar when configured, in-memory stub otherwise.
	var calendar appointments.Calendar = gcal.NewStubCalendar(logger)
	if cfg.GoogleCredentialsJSON != "" && cfg.GoogleCalendarID != "" {
		gc, err := gcal.New(ctx, cfg.GoogleCredentialsJSON, cfg.GoogleCalendarID, logger)
		if err != nil {
			logger.Error("failed to initialize Google Calendar", "error", err)
			os.Exit(1)
		}
		calendar = gc
	}

	notifier := notify.NewService(buildEmailSender(ctx, cfg, logger), nil, cfg.ClinicName, loc, logger)

	bookingSvc := appointments.NewService(finder, repo, summarizer, calendar, notifier,
		schedMetrics, logger, appointments.Options{
			DurationMins: cfg.AppointmentDurationMins,
			CallTimeout:  cfg.ExternalCallTimeout,
		})
	reminderSvc := reminders.NewService(repo, notifier, loc, cfg.ReminderLookahead, schedMetrics, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(bookingSvc, logger),
		RemindersHandler:    reminders.NewHandler(reminderSvc, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the delivery backend from EMAIL_PROVIDER. Unknown or
// unconfigured providers fall back to the logging stub so development setups
// boot without credentials.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY missing, using stub email sender")
	case "ses":
		if cfg.SESFromEmail == "" {
			logger.Warn("ses selected but SES_FROM_EMAIL missing, using stub email sender")
			break
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, using stub email sender", "error", err)
			break
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.ClinicName,
		}, logger)
	}
	return notify.NewStubEmailSender(logger)
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice_reminder_service/internal/app"
	"invoice_reminder_service/internal/domain/delivery"
	"invoice_reminder_service/internal/infra/config"
	idb "invoice_reminder_service/internal/infra/database"
	infradelivery "invoice_reminder_service/internal/infra/delivery"
	"invoice_reminder_service/internal/infra/httpapi"
	"invoice_reminder_service/internal/infra/logger"
	"invoice_reminder_service/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Invoice reminder service starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"notifier":    cfg.Notifier,
	}).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully")

	// Initialize Repositories
	invoiceRepo := idb.NewPostgresInvoiceRepository(db)
	reminderRepo := idb.NewPostgresReminderRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	mainLogger.Info("Repositories initialized")

	// Initialize outbound Notifier
	notifier, err := buildNotifier(cfg)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialize outbound notifier")
	}

	// Initialize Services
	scanner := app.NewOverdueScanner(invoiceRepo, logger.Get().WithField("component", "overdue_scanner"))
	reminderService := app.NewReminderServiceImpl(
		scanner,
		reminderRepo, // rule repository
		reminderRepo, // ledger repository
		notificationRepo,
		notifier,
		logger.Get().WithField("component", "reminder_service"),
	)
	ruleService := app.NewRuleService(reminderRepo, logger.Get().WithField("component", "rule_service"))
	mainLogger.Info("Reminder and rule services initialized")

	// Initialize ReminderScheduler
	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecReminderRun,
	)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}

	// HTTP API (manual trigger, rule administration, metrics)
	router := httpapi.NewRouter(reminderService, ruleService, cfg.JWTSecret, logger.Get().WithField("component", "httpapi"))
	srv := &http.Server{
		Addr:    cfg.HTTPListenAddr,
		Handler: router,
	}
	go func() {
		mainLogger.WithField("addr", cfg.HTTPListenAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	mainLogger.Info("Application setup complete. Scheduler and HTTP API are running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown error")
	}
	reminderScheduler.Stop()
	// db.Close() is handled by defer
	mainLogger.Info("Application shut down gracefully")
}

// buildNotifier selects the outbound delivery implementation from config.
func buildNotifier(cfg *config.AppConfig) (delivery.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierSMTP:
		return infradelivery.NewSMTPNotifier(infradelivery.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	case config.NotifierTelegram:
		bot, err := telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			return nil, fmt.Errorf("could not create Telegram bot: %w", err)
		}
		return infradelivery.NewTelegramNotifier(bot, cfg.TelegramAdminChatID), nil
	default:
		return infradelivery.NewLogNotifier(logger.Get().WithField("component", "log_notifier")), nil
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Notifier kinds selectable via the NOTIFIER variable.
const (
	NotifierLog      = "log"
	NotifierSMTP     = "smtp"
	NotifierTelegram = "telegram"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL    string
	HTTPListenAddr string
	JWTSecret      string
	LogLevel       string
	Environment    string

	// CronSpecReminderRun is the daily reminder run schedule.
	CronSpecReminderRun string

	// Notifier selects the outbound delivery channel: log, smtp or telegram.
	Notifier string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	TelegramToken       string
	TelegramAdminChatID int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.HTTPListenAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.HTTPListenAddr == "" {
		cfg.HTTPListenAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecReminderRun = os.Getenv("CRON_SPEC_REMINDER_RUN")
	if cfg.CronSpecReminderRun == "" {
		cfg.CronSpecReminderRun = "0 9 * * *" // Default: 09:00 daily
	}

	cfg.Notifier = strings.ToLower(os.Getenv("NOTIFIER"))
	if cfg.Notifier == "" {
		cfg.Notifier = NotifierLog // Default: logging stub, no outbound delivery
	}

	switch cfg.Notifier {
	case NotifierLog:
		// Nothing else required.
	case NotifierSMTP:
		cfg.SMTPHost = os.Getenv("SMTP_HOST")
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is not set (required for NOTIFIER=smtp)")
		}
		portStr := os.Getenv("SMTP_PORT")
		if portStr == "" {
			return nil, fmt.Errorf("SMTP_PORT is not set (required for NOTIFIER=smtp)")
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.SMTPPort = port
		cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
		cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
		cfg.SMTPFrom = os.Getenv("SMTP_FROM")
		if cfg.SMTPFrom == "" {
			return nil, fmt.Errorf("SMTP_FROM is not set (required for NOTIFIER=smtp)")
		}
	case NotifierTelegram:
		cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
		if cfg.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is not set (required for NOTIFIER=telegram)")
		}
		chatIDStr := os.Getenv("TELEGRAM_ADMIN_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID is not set (required for NOTIFIER=telegram)")
		}
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
		cfg.TelegramAdminChatID = chatID
	default:
		return nil, fmt.Errorf("unknown NOTIFIER value: %s", cfg.Notifier)
	}

	return cfg, nil
}

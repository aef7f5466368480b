package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	JWT       JWTConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type JWTConfig struct {
	Secret string
}

// SchedulerConfig tunes the background jobs. The cron specs use the
// standard five-field format; the minute/second knobs control the
// reminder window and the grace periods of the overdue sweep.
type SchedulerConfig struct {
	SlotGenerationSpec string
	ReminderScanSpec   string
	OverdueSweepSpec   string

	ReminderLeadMinutes int
	ReminderBandSeconds int
	PendingGraceMinutes int
	ActiveGraceMinutes  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Counseling Platform"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Scheduler: SchedulerConfig{
			SlotGenerationSpec:  getEnv("SCHEDULER_SLOT_GENERATION_SPEC", "0 0 * * *"),
			ReminderScanSpec:    getEnv("SCHEDULER_REMINDER_SCAN_SPEC", "* * * * *"),
			OverdueSweepSpec:    getEnv("SCHEDULER_OVERDUE_SWEEP_SPEC", "*/5 * * * *"),
			ReminderLeadMinutes: getEnvAsInt("SCHEDULER_REMINDER_LEAD_MINUTES", 10),
			ReminderBandSeconds: getEnvAsInt("SCHEDULER_REMINDER_BAND_SECONDS", 30),
			PendingGraceMinutes: getEnvAsInt("SCHEDULER_PENDING_GRACE_MINUTES", 15),
			ActiveGraceMinutes:  getEnvAsInt("SCHEDULER_ACTIVE_GRACE_MINUTES", 30),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	CORSAllowedOrigins []string

	// Clinic identity and scheduling rules
	ClinicName              string
	ClinicTimezone          string
	DoctorSlotsJSON         string
	SearchHorizonDays       int
	AppointmentDurationMins int
	ReminderLookahead       time.Duration
	ExternalCallTimeout     time.Duration

	// Gemini summarization
	GeminiAPIKey  string
	GeminiModelID string

	// Google Calendar
	GoogleCalendarID      string
	GoogleCredentialsJSON string

	// Email delivery
	EmailProvider     string // sendgrid, ses or stub
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	AWSRegion         string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		ClinicName:              getEnv("CLINIC_NAME", "CareSync"),
		ClinicTimezone:          getEnv("CLINIC_TIMEZONE", "Africa/Addis_Ababa"),
		DoctorSlotsJSON:         getEnv("DOCTOR_SLOTS_JSON", ""),
		SearchHorizonDays:       getEnvAsInt("SEARCH_HORIZON_DAYS", 30),
		AppointmentDurationMins: getEnvAsInt("APPOINTMENT_DURATION_MINS", 60),
		ReminderLookahead:       getEnvAsDuration("REMINDER_LOOKAHEAD", 24*time.Hour),
		ExternalCallTimeout:     getEnvAsDuration("EXTERNAL_CALL_TIMEOUT", 10*time.Second),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		EmailProvider:     getEnv("EMAIL_PROVIDER", "stub"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "CareSync"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable into values.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

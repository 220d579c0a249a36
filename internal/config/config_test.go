package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "CareSync", cfg.ClinicName)
	assert.Equal(t, "Africa/Addis_Ababa", cfg.ClinicTimezone)
	assert.Equal(t, 30, cfg.SearchHorizonDays)
	assert.Equal(t, 60, cfg.AppointmentDurationMins)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLookahead)
	assert.Equal(t, 10*time.Second, cfg.ExternalCallTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModelID)
	assert.Equal(t, "stub", cfg.EmailProvider)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEARCH_HORIZON_DAYS", "14")
	t.Setenv("REMINDER_LOOKAHEAD", "48h")
	t.Setenv("CLINIC_TIMEZONE", "UTC")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 14, cfg.SearchHorizonDays)
	assert.Equal(t, 48*time.Hour, cfg.ReminderLookahead)
	assert.Equal(t, "UTC", cfg.ClinicTimezone)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SEARCH_HORIZON_DAYS", "not-a-number")
	t.Setenv("REMINDER_LOOKAHEAD", "eventually")

	cfg := Load()

	assert.Equal(t, 30, cfg.SearchHorizonDays)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLookahead)
}

package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/caresync/clinic-scheduler/internal/appointments"
	"github.com/caresync/clinic-scheduler/internal/observability/metrics"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

// Store is the slice of the appointment store the sweep needs.
type Store interface {
	DueReminders(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// ReminderSender delivers a reminder to the patient. The boolean reports a
// clean provider rejection; only a clean success marks the appointment.
type ReminderSender interface {
	SendReminder(ctx context.Context, appt *appointments.Appointment) (bool, error)
}

// Service sweeps upcoming appointments and sends one reminder per match.
type Service struct {
	store     Store
	notifier  ReminderSender
	metrics   *metrics.SchedulingMetrics
	logger    *logging.Logger
	loc       *time.Location
	lookahead time.Duration
	now       func() time.Time
}

// NewService constructs the reminder sweep. lookahead defaults to 24h.
func NewService(store Store, notifier ReminderSender, loc *time.Location, lookahead time.Duration, m *metrics.SchedulingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("reminders: store required")
	}
	if notifier == nil {
		panic("reminders: notifier required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if lookahead <= 0 {
		lookahead = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		loc:       loc,
		lookahead: lookahead,
		now:       time.Now,
	}
}

// Run selects unreminded appointments starting within the lookahead window
// and sends each a reminder. Appointments are processed one at a time and the
// reminder flag is committed immediately after each successful send, so a
// crash mid-sweep re-notifies at most the appointment in flight. Failures are
// logged and skipped; the row stays eligible for the next run. Returns the
// number of reminders actually sent.
func (s *Service) Run(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	windowEnd := now.Add(s.lookahead)

	due, err := s.store.DueReminders(ctx, now, windowEnd)
	if err != nil {
		return 0, fmt.Errorf("reminders: load due appointments: %w", err)
	}
	if len(due) == 0 {
		s.logger.Info("no appointments need reminders")
		return 0, nil
	}
	s.logger.Info("found appointments to remind", "count", len(due))

	sent := 0
	for i := range due {
		appt := &due[i]
		delivered, sendErr := s.notifier.SendReminder(ctx, appt)
		if sendErr != nil {
			s.logger.Warn("reminder send failed", "appointment_id", appt.ID, "error", sendErr)
			s.metrics.ObserveReminder("failed")
			continue
		}
		if !delivered {
			s.logger.Warn("reminder rejected by provider", "appointment_id", appt.ID)
			s.metrics.ObserveReminder("rejected")
			continue
		}
		if err := s.store.MarkReminderSent(ctx, appt.ID); err != nil {
			// Unmarked but delivered: the next sweep may resend this one row.
			s.logger.Error("failed to mark reminder sent", "appointment_id", appt.ID, "error", err)
			s.metrics.ObserveReminder("mark_failed")
			continue
		}
		s.logger.Info("reminder sent", "appointment_id", appt.ID, "patient_email", appt.PatientEmail)
		s.metrics.ObserveReminder("sent")
		sent++
	}

	s.logger.Info("reminder sweep complete", "sent", sent)
	return sent, nil
}

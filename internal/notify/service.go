package notify

import (
	"context"
	"time"

	"github.com/caresync/clinic-scheduler/internal/appointments"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

// SMSSender sends SMS messages to patients.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Service delivers patient-facing notifications. Email is the primary
// channel; SMS, when configured, is sent best-effort and never affects the
// outcome reported to callers.
type Service struct {
	email      EmailSender
	sms        SMSSender
	clinicName string
	loc        *time.Location
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, sms SMSSender, clinicName string, loc *time.Location, logger *logging.Logger) *Service {
	if email == nil {
		panic("notify: email sender required")
	}
	if clinicName == "" {
		clinicName = "CareSync"
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		sms:        sms,
		clinicName: clinicName,
		loc:        loc,
		logger:     logger,
	}
}

// SendConfirmation emails the booking confirmation to the patient.
func (s *Service) SendConfirmation(ctx context.Context, appt *appointments.Appointment) (bool, error) {
	delivered, err := s.email.Send(ctx, ConfirmationEmail(appt, s.clinicName, s.loc))
	if err != nil {
		return false, err
	}
	s.sendSMS(ctx, appt, ConfirmationSMS(appt, s.clinicName, s.loc))
	return delivered, nil
}

// SendReminder emails the day-before reminder to the patient.
func (s *Service) SendReminder(ctx context.Context, appt *appointments.Appointment) (bool, error) {
	delivered, err := s.email.Send(ctx, ReminderEmail(appt, s.clinicName, s.loc))
	if err != nil {
		return false, err
	}
	s.sendSMS(ctx, appt, ReminderSMS(appt, s.clinicName, s.loc))
	return delivered, nil
}

func (s *Service) sendSMS(ctx context.Context, appt *appointments.Appointment, body string) {
	if s.sms == nil || appt.PatientPhone == "" {
		return
	}
	if err := s.sms.SendSMS(ctx, appt.PatientPhone, body); err != nil {
		s.logger.Warn("notify: SMS send failed", "error", err, "to", appt.PatientPhone)
	}
}

// SimpleSMSSender provides a simple SMS sending implementation backed by a
// provider-specific send function.
type SimpleSMSSender struct {
	sendFunc func(ctx context.Context, to, from, body string) error
	from     string
	logger   *logging.Logger
}

// NewSimpleSMSSender creates an SMS sender with a custom send function.
func NewSimpleSMSSender(from string, sendFunc func(ctx context.Context, to, from, body string) error, logger *logging.Logger) *SimpleSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SimpleSMSSender{sendFunc: sendFunc, from: from, logger: logger}
}

// SendSMS sends an SMS message.
func (s *SimpleSMSSender) SendSMS(ctx context.Context, to, body string) error {
	if s.sendFunc == nil {
		s.logger.Warn("notify: SMS sender not configured")
		return nil
	}
	return s.sendFunc(ctx, to, s.from, body)
}

// Ensure interface compliance
var _ SMSSender = (*SimpleSMSSender)(nil)
var _ appointments.ConfirmationSender = (*Service)(nil)

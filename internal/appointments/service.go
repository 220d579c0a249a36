package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caresync/clinic-scheduler/internal/observability/metrics"
	"github.com/caresync/clinic-scheduler/internal/schedule"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

var tracer = otel.Tracer("caresync.internal.appointments")

// Intake is the clinical information fed to the summarizer.
type Intake struct {
	Symptoms          string
	KnownAllergies    string
	CurrentMedication string
	MedicalHistory    string
	AdditionalNote    string
}

// Summarizer produces a short clinical note from patient intake. It never
// fails: implementations substitute a fixed fallback text on internal errors.
type Summarizer interface {
	Summarize(ctx context.Context, intake Intake) string
}

// CalendarEvent describes the external calendar reservation for a booking.
type CalendarEvent struct {
	Title        string
	Description  string
	Start        time.Time
	DurationMins int
	Timezone     string
}

// Calendar reserves and releases events on the external calendar.
type Calendar interface {
	CreateEvent(ctx context.Context, ev CalendarEvent) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// ConfirmationSender delivers the booking confirmation to the patient. The
// boolean distinguishes a clean provider rejection (false, nil) from a
// transport failure (err != nil); the two take different paths through the
// booking transaction.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, appt *Appointment) (bool, error)
}

// Options tunes the booking transaction.
type Options struct {
	DurationMins int           // calendar event length, default 60
	CallTimeout  time.Duration // per external call, default 10s
}

// Service runs the booking transaction: resolve slot, summarize intake,
// reserve the calendar event, notify the patient, persist — compensating the
// calendar reservation when a later step fails.
type Service struct {
	finder     *schedule.Finder
	store      Store
	summarizer Summarizer
	calendar   Calendar
	notifier   ConfirmationSender
	metrics    *metrics.SchedulingMetrics
	logger     *logging.Logger
	opts       Options
}

// NewService constructs the booking coordinator. Collaborators are injected
// once at startup; the service holds no other mutable state.
func NewService(finder *schedule.Finder, store Store, summarizer Summarizer, calendar Calendar, notifier ConfirmationSender, m *metrics.SchedulingMetrics, logger *logging.Logger, opts Options) *Service {
	if finder == nil {
		panic("appointments: finder required")
	}
	if store == nil {
		panic("appointments: store required")
	}
	if summarizer == nil || calendar == nil || notifier == nil {
		panic("appointments: summarizer, calendar and notifier required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.DurationMins <= 0 {
		opts.DurationMins = 60
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	return &Service{
		finder:     finder,
		store:      store,
		summarizer: summarizer,
		calendar:   calendar,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
		opts:       opts,
	}
}

// Book turns a booking request into a persisted appointment with consistent
// external state, or guarantees no partial state survives a failure.
func (s *Service) Book(ctx context.Context, req *BookingRequest) (appt *Appointment, err error) {
	ctx, span := tracer.Start(ctx, "appointments.book")
	defer span.End()
	started := time.Now()

	// Ordered compensation list, run in reverse on the failure path.
	var cleanups []func(context.Context)
	fail := func(failure error, outcome string) (*Appointment, error) {
		s.runCleanups(ctx, cleanups)
		span.RecordError(failure)
		s.metrics.ObserveBooking(outcome, time.Since(started).Seconds())
		return nil, failure
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("booking panicked", "panic", r)
			appt, err = fail(fmt.Errorf("%w: %v", ErrInternal, r), "internal_error")
		}
	}()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveBooking("validation_error", time.Since(started).Seconds())
		return nil, err
	}
	birthDate, err := req.BirthDate()
	if err != nil {
		return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrValidation)
	}

	doctor, startAt, err := s.resolveSlot(ctx, req)
	if err != nil {
		s.metrics.ObserveBooking("slot_error", time.Since(started).Seconds())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("caresync.doctor", doctor),
		attribute.String("caresync.appointment_time", startAt.Format(time.RFC3339)),
	)

	summary := s.summarize(ctx, req)

	eventID, err := s.createEvent(ctx, req, doctor, startAt, summary)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrCalendar, err), "calendar_error")
	}
	cleanups = append(cleanups, func(ctx context.Context) {
		dctx, cancel := s.callContext(ctx)
		defer cancel()
		if delErr := s.calendar.DeleteEvent(dctx, eventID); delErr != nil {
			// Orphaned external event: logged for operator attention, never retried here.
			s.logger.Error("compensation failed, calendar event orphaned", "event_id", eventID, "error", delErr)
			s.metrics.ObserveCompensation(false)
			return
		}
		s.logger.Info("calendar event deleted during rollback", "event_id", eventID)
		s.metrics.ObserveCompensation(true)
	})

	pending := &Appointment{
		PatientName:       req.PatientName,
		PatientEmail:      req.PatientEmail,
		PatientPhone:      req.PatientPhone,
		DateOfBirth:       birthDate,
		Gender:            req.Gender,
		KnownAllergies:    req.KnownAllergies,
		CurrentMedication: req.CurrentMedication,
		MedicalHistory:    req.MedicalHistory,
		AdditionalNote:    req.AdditionalNote,
		Symptoms:          req.Symptoms,
		Summary:           summary,
		Doctor:            doctor,
		AppointmentTime:   startAt,
		CalendarEventID:   eventID,
	}

	nctx, cancel := s.callContext(ctx)
	delivered, notifyErr := s.notifier.SendConfirmation(nctx, pending)
	cancel()
	if notifyErr != nil {
		return fail(fmt.Errorf("%w: %w", ErrNotification, notifyErr), "notification_error")
	}
	if !delivered {
		// Clean send failure: the booking still goes through, the patient is
		// simply not notified.
		s.logger.Warn("confirmation not delivered, continuing booking",
			"patient_email", pending.PatientEmail, "event_id", eventID)
	}

	pctx, cancel := s.callContext(ctx)
	insertErr := s.store.Insert(pctx, pending)
	cancel()
	if insertErr != nil {
		if errors.Is(insertErr, schedule.ErrSlotTaken) {
			return fail(schedule.ErrSlotTaken, "slot_taken")
		}
		return fail(fmt.Errorf("%w: %w", ErrPersistence, insertErr), "persistence_error")
	}

	s.logger.Info("appointment booked",
		"id", pending.ID,
		"doctor", pending.Doctor,
		"appointment_time", pending.AppointmentTime,
		"event_id", eventID,
	)
	s.metrics.ObserveBooking("success", time.Since(started).Seconds())
	return pending, nil
}

// Appointments lists every persisted appointment.
func (s *Service) Appointments(ctx context.Context) ([]Appointment, error) {
	appts, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return appts, nil
}

// AvailableSlots returns the free slot times for one doctor on one date.
func (s *Service) AvailableSlots(ctx context.Context, doctorName, date string) ([]string, error) {
	if doctorName == "" || date == "" {
		return nil, fmt.Errorf("%w: doctor and date are required", ErrValidation)
	}
	day, err := time.ParseInLocation(dateLayout, date, s.finder.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return s.finder.FreeSlots(ctx, day, doctorName)
}

// Doctors exposes the configured doctor names in search order.
func (s *Service) Doctors() []string {
	doctors := s.finder.Template().Doctors()
	names := make([]string, 0, len(doctors))
	for _, d := range doctors {
		names = append(names, d.Name)
	}
	return names
}

func (s *Service) resolveSlot(ctx context.Context, req *BookingRequest) (string, time.Time, error) {
	loc := s.finder.Location()
	if req.HasExplicitSlot() {
		day, err := time.ParseInLocation(dateLayout, req.AppointmentDate, loc)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: appointment_date must be YYYY-MM-DD", ErrValidation)
		}
		doctor := req.PreferredDoctor
		if doctor == "" {
			doctor = s.finder.Template().First().Name
		}
		at, err := s.finder.ValidateExplicit(ctx, day, req.TimeSlot, doctor)
		if err != nil {
			return "", time.Time{}, err
		}
		return doctor, at, nil
	}

	var start time.Time
	if req.AppointmentDate != "" {
		day, err := time.ParseInLocation(dateLayout, req.AppointmentDate, loc)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: appointment_date must be YYYY-MM-DD", ErrValidation)
		}
		start = day
	}
	return s.finder.FindNextAvailable(ctx, start, req.PreferredDoctor)
}

func (s *Service) summarize(ctx context.Context, req *BookingRequest) string {
	sctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.summarizer.Summarize(sctx, Intake{
		Symptoms:          req.Symptoms,
		KnownAllergies:    req.KnownAllergies,
		CurrentMedication: req.CurrentMedication,
		MedicalHistory:    req.MedicalHistory,
		AdditionalNote:    req.AdditionalNote,
	})
}

func (s *Service) createEvent(ctx context.Context, req *BookingRequest, doctor string, startAt time.Time, summary string) (string, error) {
	description := fmt.Sprintf("Symptoms Summary: %s\nPatient Phone: %s\nPatient Email: %s\nDoctor: %s",
		summary, req.PatientPhone, req.PatientEmail, doctor)
	cctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.calendar.CreateEvent(cctx, CalendarEvent{
		Title:        req.PatientName,
		Description:  description,
		Start:        startAt,
		DurationMins: s.opts.DurationMins,
		Timezone:     s.finder.Location().String(),
	})
}

func (s *Service) runCleanups(ctx context.Context, cleanups []func(context.Context)) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i](ctx)
	}
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	// Compensation must still run when the request context is already dead.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.CallTimeout)
}

package gcal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/caresync/clinic-scheduler/internal/appointments"
	"github.com/caresync/clinic-scheduler/pkg/logging"
)

// Service reserves appointment events on a Google Calendar.
type Service struct {
	events     *calendar.EventsService
	calendarID string
	logger     *logging.Logger
}

// New creates a calendar client from service-account credentials JSON.
func New(ctx context.Context, credentialsJSON, calendarID string, logger *logging.Logger) (*Service, error) {
	if strings.TrimSpace(credentialsJSON) == "" || strings.TrimSpace(calendarID) == "" {
		return nil, errors.New("gcal: credentials and calendar id are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("gcal: failed to create calendar service: %w", err)
	}
	return &Service{events: svc.Events, calendarID: calendarID, logger: logger}, nil
}

// CreateEvent inserts an appointment event and returns its id.
func (s *Service) CreateEvent(ctx context.Context, ev appointments.CalendarEvent) (string, error) {
	end := ev.Start.Add(time.Duration(ev.DurationMins) * time.Minute)
	event := &calendar.Event{
		Summary:     "Appointment: " + ev.Title,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
	}

	created, err := s.events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		s.logger.Error("calendar event creation failed", "error", err, "start", ev.Start)
		return "", fmt.Errorf("gcal: insert event: %w", err)
	}
	s.logger.Info("calendar event created", "event_id", created.Id, "link", created.HtmlLink)
	return created.Id, nil
}

// DeleteEvent removes a previously created event, typically as booking
// compensation.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.events.Delete(s.calendarID, eventID).Context(ctx).Do(); err != nil {
		s.logger.Error("calendar event deletion failed", "error", err, "event_id", eventID)
		return fmt.Errorf("gcal: delete event: %w", err)
	}
	s.logger.Info("calendar event deleted", "event_id", eventID)
	return nil
}

// StubCalendar records events in memory for local runs and tests.
type StubCalendar struct {
	mu     sync.Mutex
	nextID int
	events map[string]appointments.CalendarEvent
	logger *logging.Logger
}

// NewStubCalendar creates an in-memory calendar.
func NewStubCalendar(logger *logging.Logger) *StubCalendar {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubCalendar{events: make(map[string]appointments.CalendarEvent), logger: logger}
}

// CreateEvent stores the event and returns a synthetic id.
func (s *StubCalendar) CreateEvent(_ context.Context, ev appointments.CalendarEvent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("stub-event-%d", s.nextID)
	s.events[id] = ev
	s.logger.Info("stub calendar: event created", "event_id", id, "start", ev.Start)
	return id, nil
}

// DeleteEvent removes a stored event.
func (s *StubCalendar) DeleteEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return fmt.Errorf("gcal: stub event %s not found", eventID)
	}
	delete(s.events, eventID)
	return nil
}

// Ensure interface compliance
var _ appointments.Calendar = (*Service)(nil)
var _ appointments.Calendar = (*StubCalendar)(nil)

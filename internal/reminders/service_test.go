package reminders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/clinic-scheduler/internal/appointments"
)

type fakeStore struct {
	due     []appointments.Appointment
	dueErr  error
	marked  []int64
	markErr map[int64]error

	from, to time.Time
}

func (f *fakeStore) DueReminders(_ context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	f.from, f.to = from, to
	return f.due, f.dueErr
}

func (f *fakeStore) MarkReminderSent(_ context.Context, id int64) error {
	if err := f.markErr[id]; err != nil {
		return err
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeSender struct {
	sent      []int64
	rejectIDs map[int64]bool
	errIDs    map[int64]error
}

func (f *fakeSender) SendReminder(_ context.Context, appt *appointments.Appointment) (bool, error) {
	if err := f.errIDs[appt.ID]; err != nil {
		return false, err
	}
	if f.rejectIDs[appt.ID] {
		return false, nil
	}
	f.sent = append(f.sent, appt.ID)
	return true, nil
}

func dueAppointments(ids ...int64) []appointments.Appointment {
	appts := make([]appointments.Appointment, 0, len(ids))
	for _, id := range ids {
		appts = append(appts, appointments.Appointment{
			ID:           id,
			PatientName:  "Abebe Bikila",
			PatientEmail: "abebe@example.com",
			Doctor:       "Dr. Lee",
		})
	}
	return appts
}

func TestRunSendsAndMarksEach(t *testing.T) {
	store := &fakeStore{due: dueAppointments(9, 4, 1)}
	sender := &fakeSender{}
	svc := NewService(store, sender, time.UTC, 24*time.Hour, nil, nil)

	sent, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, []int64{9, 4, 1}, sender.sent, "store order must be preserved")
	assert.Equal(t, []int64{9, 4, 1}, store.marked)
}

func TestRunWindowIsLookaheadWide(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeSender{}, time.UTC, 24*time.Hour, nil, nil)
	fixed := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, store.from)
	assert.Equal(t, fixed.Add(24*time.Hour), store.to)
}

func TestRunEmptyWindow(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeSender{}, time.UTC, 0, nil, nil)

	sent, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRunStoreErrorAbortsSweep(t *testing.T) {
	store := &fakeStore{dueErr: errors.New("connection refused")}
	svc := NewService(store, &fakeSender{}, time.UTC, 0, nil, nil)

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}

func TestRunSendFailureIsolatedToOneRow(t *testing.T) {
	store := &fakeStore{due: dueAppointments(9, 4, 1)}
	sender := &fakeSender{errIDs: map[int64]error{4: errors.New("smtp timeout")}}
	svc := NewService(store, sender, time.UTC, 0, nil, nil)

	sent, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []int64{9, 1}, store.marked, "failed row must stay unmarked")
}

func TestRunRejectionNotCounted(t *testing.T) {
	store := &fakeStore{due: dueAppointments(9, 4)}
	sender := &fakeSender{rejectIDs: map[int64]bool{9: true}}
	svc := NewService(store, sender, time.UTC, 0, nil, nil)

	sent, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []int64{4}, store.marked)
}

func TestRunMarkFailureNotCounted(t *testing.T) {
	store := &fakeStore{
		due:     dueAppointments(9, 4),
		markErr: map[int64]error{9: errors.New("deadlock detected")},
	}
	sender := &fakeSender{}
	svc := NewService(store, sender, time.UTC, 0, nil, nil)

	sent, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent, "delivered but unmarked rows do not count as sent")
	assert.Equal(t, []int64{9, 4}, sender.sent)
	assert.Equal(t, []int64{4}, store.marked)
}

func TestHandlerReportsSentCount(t *testing.T) {
	store := &fakeStore{due: dueAppointments(9, 4)}
	svc := NewService(store, &fakeSender{}, time.UTC, 0, nil, nil)
	h := NewHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/api/send-reminders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sent 2 reminders.")
	assert.Contains(t, rec.Body.String(), `"reminders_sent":2`)
}

func TestHandlerSweepError(t *testing.T) {
	store := &fakeStore{dueErr: errors.New("connection refused")}
	svc := NewService(store, &fakeSender{}, time.UTC, 0, nil, nil)
	h := NewHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/api/send-reminders", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

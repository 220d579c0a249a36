package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/clinic-scheduler/internal/schedule"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepositoryWithDB(mock)
}

// anyInsertArgs matches the 14 placeholders of the INSERT statement without
// pinning their values; pgxmock requires the expected and actual argument
// counts to be equal even when no WithArgs is given.
func anyInsertArgs() []any {
	args := make([]any, 14)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func repoAppointment() *Appointment {
	return &Appointment{
		PatientName:     "Abebe Bikila",
		PatientEmail:    "abebe@example.com",
		PatientPhone:    "+251911000000",
		DateOfBirth:     time.Date(1990, time.April, 15, 0, 0, 0, 0, time.UTC),
		Symptoms:        "persistent cough",
		Summary:         "Persistent cough, two weeks.",
		Doctor:          "Dr. Lee",
		AppointmentTime: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		CalendarEventID: "evt-1",
	}
}

func TestInsertReturnsGeneratedID(t *testing.T) {
	mock, repo := newMockRepo(t)
	appt := repoAppointment()

	created := time.Date(2025, time.May, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(
			appt.PatientName, appt.PatientEmail, appt.PatientPhone, appt.DateOfBirth,
			toPGText(""), toPGText(""), toPGText(""), toPGText(""), toPGText(""),
			appt.Symptoms, toPGText(appt.Summary), appt.Doctor, appt.AppointmentTime,
			toPGText(appt.CalendarEventID),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	require.NoError(t, repo.Insert(context.Background(), appt))
	assert.Equal(t, int64(42), appt.ID)
	assert.Equal(t, created, appt.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUniqueViolationMapsToSlotTaken(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(anyInsertArgs()...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_doctor_time_key"})

	err := repo.Insert(context.Background(), repoAppointment())
	assert.ErrorIs(t, err, schedule.ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWrapsOtherErrors(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(anyInsertArgs()...).
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), repoAppointment())
	require.Error(t, err)
	assert.NotErrorIs(t, err, schedule.ErrSlotTaken)
	assert.Contains(t, err.Error(), "insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimesBetweenFiltersByDoctor(t *testing.T) {
	mock, repo := newMockRepo(t)
	from := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	booked := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT appointment_time FROM appointments WHERE appointment_time >= \$1 AND appointment_time < \$2 AND doctor = \$3`).
		WithArgs(from, to, "Dr. Lee").
		WillReturnRows(pgxmock.NewRows([]string{"appointment_time"}).AddRow(booked))

	times, err := repo.TimesBetween(context.Background(), from, to, "Dr. Lee")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{booked}, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimesBetweenAllDoctors(t *testing.T) {
	mock, repo := newMockRepo(t)
	from := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT appointment_time FROM appointments WHERE appointment_time >= \$1 AND appointment_time < \$2 ORDER BY`).
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"appointment_time"}))

	times, err := repo.TimesBetween(context.Background(), from, to, "")
	require.NoError(t, err)
	assert.Empty(t, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func appointmentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "patient_name", "patient_email", "patient_phone", "date_of_birth",
		"gender", "known_allergies", "current_medication", "medical_history", "additional_note",
		"symptoms", "summary", "doctor", "appointment_time", "calendar_event_id", "reminder_sent", "created_at",
	})
}

func TestListScansRows(t *testing.T) {
	mock, repo := newMockRepo(t)
	at := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM appointments ORDER BY appointment_time ASC`).
		WillReturnRows(appointmentRows().AddRow(
			int64(7), "Abebe Bikila", "abebe@example.com", "+251911000000",
			time.Date(1990, time.April, 15, 0, 0, 0, 0, time.UTC),
			toPGText("male"), toPGText(""), toPGText(""), toPGText(""), toPGText(""),
			"persistent cough", toPGText("Persistent cough, two weeks."), "Dr. Lee",
			at, toPGText("evt-1"), false, at.Add(-48*time.Hour),
		))

	appts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, int64(7), appts[0].ID)
	assert.Equal(t, "Dr. Lee", appts[0].Doctor)
	assert.Equal(t, "evt-1", appts[0].CalendarEventID)
	assert.Equal(t, "male", appts[0].Gender)
	assert.Empty(t, appts[0].KnownAllergies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDueRemindersQueriesWindowNewestFirst(t *testing.T) {
	mock, repo := newMockRepo(t)
	from := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	at := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`NOT reminder_sent\s+ORDER BY id DESC`).
		WithArgs(from, to).
		WillReturnRows(appointmentRows().
			AddRow(int64(9), "B", "b@example.com", "+1", at, toPGText(""), toPGText(""), toPGText(""), toPGText(""), toPGText(""),
				"s", toPGText(""), "Dr. Lee", at, toPGText(""), false, at).
			AddRow(int64(4), "A", "a@example.com", "+1", at, toPGText(""), toPGText(""), toPGText(""), toPGText(""), toPGText(""),
				"s", toPGText(""), "Dr. Smith", at, toPGText(""), false, at))

	appts, err := repo.DueReminders(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, int64(9), appts[0].ID)
	assert.Equal(t, int64(4), appts[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReminderSent(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`UPDATE appointments SET reminder_sent = TRUE`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkReminderSent(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReminderSentMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`UPDATE appointments SET reminder_sent = TRUE`).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkReminderSent(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

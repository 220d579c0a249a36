package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caresync/clinic-scheduler/internal/schedule"
)

// uniqueViolation is the SQLSTATE raised by the (doctor, appointment_time)
// unique constraint when a concurrent booking wins the race.
const uniqueViolation = "23505"

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, patient_name, patient_email, patient_phone, date_of_birth,
	gender, known_allergies, current_medication, medical_history, additional_note,
	symptoms, summary, doctor, appointment_time, calendar_event_id, reminder_sent, created_at`

// Insert persists a new appointment row.
func (r *PostgresRepository) Insert(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (
			patient_name, patient_email, patient_phone, date_of_birth,
			gender, known_allergies, current_medication, medical_history, additional_note,
			symptoms, summary, doctor, appointment_time, calendar_event_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		appt.PatientName,
		appt.PatientEmail,
		appt.PatientPhone,
		appt.DateOfBirth,
		toPGText(appt.Gender),
		toPGText(appt.KnownAllergies),
		toPGText(appt.CurrentMedication),
		toPGText(appt.MedicalHistory),
		toPGText(appt.AdditionalNote),
		appt.Symptoms,
		toPGText(appt.Summary),
		appt.Doctor,
		appt.AppointmentTime,
		toPGText(appt.CalendarEventID),
	).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return schedule.ErrSlotTaken
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// List returns every appointment ordered by appointment time.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY appointment_time ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// TimesBetween returns booked appointment times in [from, to).
func (r *PostgresRepository) TimesBetween(ctx context.Context, from, to time.Time, doctor string) ([]time.Time, error) {
	query := `SELECT appointment_time FROM appointments WHERE appointment_time >= $1 AND appointment_time < $2`
	args := []any{from, to}
	if doctor != "" {
		query += ` AND doctor = $3`
		args = append(args, doctor)
	}
	query += ` ORDER BY appointment_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: times between: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("appointments: scan time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: times between: %w", err)
	}
	return times, nil
}

// DueReminders returns unreminded appointments in the window, newest id first.
func (r *PostgresRepository) DueReminders(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appointment_time >= $1 AND appointment_time < $2 AND NOT reminder_sent
		ORDER BY id DESC`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: due reminders: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// MarkReminderSent flips the reminder flag for one appointment.
func (r *PostgresRepository) MarkReminderSent(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET reminder_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var appts []Appointment
	for rows.Next() {
		var (
			appt                                                   Appointment
			gender, allergies, medication, history, note, summary  pgtype.Text
			eventID                                                pgtype.Text
		)
		if err := rows.Scan(
			&appt.ID,
			&appt.PatientName,
			&appt.PatientEmail,
			&appt.PatientPhone,
			&appt.DateOfBirth,
			&gender,
			&allergies,
			&medication,
			&history,
			&note,
			&appt.Symptoms,
			&summary,
			&appt.Doctor,
			&appt.AppointmentTime,
			&eventID,
			&appt.ReminderSent,
			&appt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		appt.Gender = gender.String
		appt.KnownAllergies = allergies.String
		appt.CurrentMedication = medication.String
		appt.MedicalHistory = history.String
		appt.AdditionalNote = note.String
		appt.Summary = summary.String
		appt.CalendarEventID = eventID.String
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return appts, nil
}

func toPGText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

var _ Store = (*PostgresRepository)(nil)

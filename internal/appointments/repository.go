package appointments

import (
	"context"
	"time"
)

// Store is the persistence contract for appointments. Implementations must
// enforce uniqueness on (doctor, appointment_time) at insert time — the slot
// search alone cannot prevent two concurrent bookings from observing the same
// slot as free.
type Store interface {
	// Insert persists a new appointment and fills in ID and CreatedAt. A
	// uniqueness conflict on (doctor, appointment_time) is reported as
	// schedule.ErrSlotTaken.
	Insert(ctx context.Context, appt *Appointment) error

	// List returns all appointments ordered by appointment time.
	List(ctx context.Context) ([]Appointment, error)

	// TimesBetween returns appointment start times in [from, to), optionally
	// filtered to one doctor (empty string means all doctors).
	TimesBetween(ctx context.Context, from, to time.Time, doctor string) ([]time.Time, error)

	// DueReminders returns unreminded appointments with start times in
	// [from, to), newest id first.
	DueReminders(ctx context.Context, from, to time.Time) ([]Appointment, error)

	// MarkReminderSent flips reminder_sent for one appointment.
	MarkReminderSent(ctx context.Context, id int64) error
}

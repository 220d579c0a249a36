package schedule

import (
	"context"
	"fmt"
	"time"
)

// AppointmentTimes is the read-side of the appointment store the finder needs.
type AppointmentTimes interface {
	// TimesBetween returns appointment start times in [from, to), optionally
	// filtered to one doctor (empty string means all doctors).
	TimesBetween(ctx context.Context, from, to time.Time, doctor string) ([]time.Time, error)
}

// Finder searches the slot templates for free appointment slots.
type Finder struct {
	tmpl        *Template
	store       AppointmentTimes
	loc         *time.Location
	horizonDays int
	now         func() time.Time
}

// NewFinder creates a finder over the given template and store. horizonDays
// bounds the forward search; 0 falls back to 30.
func NewFinder(tmpl *Template, store AppointmentTimes, loc *time.Location, horizonDays int) *Finder {
	if tmpl == nil {
		panic("schedule: template required")
	}
	if store == nil {
		panic("schedule: appointment store required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	return &Finder{
		tmpl:        tmpl,
		store:       store,
		loc:         loc,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// Template exposes the slot configuration backing this finder.
func (f *Finder) Template() *Template {
	return f.tmpl
}

// Location returns the clinic time zone.
func (f *Finder) Location() *time.Location {
	return f.loc
}

// BookedSlots returns the set of reserved canonical HH:MM slot times for the
// given calendar date, optionally filtered to one doctor.
func (f *Finder) BookedSlots(ctx context.Context, day time.Time, doctor string) (map[string]bool, error) {
	from := f.dayStart(day)
	to := from.AddDate(0, 0, 1)
	times, err := f.store.TimesBetween(ctx, from, to, doctor)
	if err != nil {
		return nil, fmt.Errorf("schedule: booked slots: %w", err)
	}
	booked := make(map[string]bool, len(times))
	for _, t := range times {
		booked[t.In(f.loc).Format("15:04")] = true
	}
	return booked, nil
}

// FreeSlots returns the doctor's template minus booked slots for the date.
func (f *Finder) FreeSlots(ctx context.Context, day time.Time, doctorName string) ([]string, error) {
	doctor, ok := f.tmpl.Get(doctorName)
	if !ok {
		return nil, ErrUnknownDoctor
	}
	booked, err := f.BookedSlots(ctx, day, doctor.Name)
	if err != nil {
		return nil, err
	}
	free := make([]string, 0, len(doctor.Slots))
	for _, slot := range doctor.Slots {
		if !booked[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

// FindNextAvailable returns the first free (doctor, start time) pair at or
// after startDate, searching day by day, doctor by doctor in template order,
// slot by slot. A zero startDate means today in the clinic time zone. The
// search gives up after the configured horizon with ErrNoSlotAvailable.
func (f *Finder) FindNextAvailable(ctx context.Context, startDate time.Time, preferredDoctor string) (string, time.Time, error) {
	doctors := f.tmpl.Doctors()
	if preferredDoctor != "" {
		doctor, ok := f.tmpl.Get(preferredDoctor)
		if !ok {
			return "", time.Time{}, ErrUnknownDoctor
		}
		doctors = []Doctor{doctor}
	}

	if startDate.IsZero() {
		startDate = f.now()
	}
	start := f.dayStart(startDate)

	for i := 0; i < f.horizonDays; i++ {
		day := start.AddDate(0, 0, i)
		for _, doctor := range doctors {
			booked, err := f.BookedSlots(ctx, day, doctor.Name)
			if err != nil {
				return "", time.Time{}, err
			}
			for _, slot := range doctor.Slots {
				if !booked[slot] {
					return doctor.Name, f.slotTime(day, slot), nil
				}
			}
		}
	}
	return "", time.Time{}, ErrNoSlotAvailable
}

// ValidateExplicit checks a caller-supplied (date, slot, doctor) triple
// without searching: the slot must belong to the doctor's template and must
// not already be booked. It returns the appointment start time in the clinic
// time zone.
func (f *Finder) ValidateExplicit(ctx context.Context, day time.Time, slot, doctorName string) (time.Time, error) {
	doctor, ok := f.tmpl.Get(doctorName)
	if !ok {
		return time.Time{}, ErrUnknownDoctor
	}
	canon, err := NormalizeSlot(slot)
	if err != nil {
		return time.Time{}, ErrInvalidSlot
	}
	if !doctor.HasSlot(canon) {
		return time.Time{}, ErrInvalidSlot
	}
	booked, err := f.BookedSlots(ctx, day, doctor.Name)
	if err != nil {
		return time.Time{}, err
	}
	if booked[canon] {
		return time.Time{}, ErrSlotTaken
	}
	return f.slotTime(f.dayStart(day), canon), nil
}

func (f *Finder) dayStart(t time.Time) time.Time {
	t = t.In(f.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, f.loc)
}

func (f *Finder) slotTime(day time.Time, slot string) time.Time {
	hour, minute := SlotClock(slot)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, f.loc)
}

package schedule

import "errors"

var (
	// ErrUnknownDoctor is returned when a doctor is not in the slot configuration
	ErrUnknownDoctor = errors.New("unknown doctor")

	// ErrInvalidSlot is returned when a requested time is not in the doctor's template
	ErrInvalidSlot = errors.New("invalid time slot")

	// ErrSlotTaken is returned when the requested slot is already booked
	ErrSlotTaken = errors.New("time slot already booked")

	// ErrNoSlotAvailable is returned when the search horizon is exhausted
	ErrNoSlotAvailable = errors.New("no available slots within search horizon")
)

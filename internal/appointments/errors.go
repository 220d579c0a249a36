package appointments

import "errors"

var (
	// ErrValidation is returned when required booking fields are missing or malformed
	ErrValidation = errors.New("validation error")

	// ErrCalendar is returned when the external calendar event cannot be created
	ErrCalendar = errors.New("failed to create calendar event")

	// ErrNotification is returned when the confirmation send fails hard
	ErrNotification = errors.New("failed to send confirmation")

	// ErrPersistence is returned when the appointment cannot be saved
	ErrPersistence = errors.New("failed to save appointment")

	// ErrNotFound is returned when an appointment does not exist
	ErrNotFound = errors.New("appointment not found")

	// ErrInternal is returned for unexpected failures after compensation ran
	ErrInternal = errors.New("unexpected error")
)

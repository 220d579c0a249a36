package appointments

import (
	"fmt"
	"strings"
	"time"
)

// Appointment is a persisted reservation of one doctor slot.
type Appointment struct {
	ID                int64     `json:"id"`
	PatientName       string    `json:"patient_name"`
	PatientEmail      string    `json:"patient_email"`
	PatientPhone      string    `json:"patient_phone"`
	DateOfBirth       time.Time `json:"date_of_birth"`
	Gender            string    `json:"gender,omitempty"`
	KnownAllergies    string    `json:"known_allergies,omitempty"`
	CurrentMedication string    `json:"current_medication,omitempty"`
	MedicalHistory    string    `json:"medical_history,omitempty"`
	AdditionalNote    string    `json:"additional_note,omitempty"`
	Symptoms          string    `json:"symptoms"`
	Summary           string    `json:"summary,omitempty"`
	Doctor            string    `json:"doctor"`
	AppointmentTime   time.Time `json:"appointment_time"`
	CalendarEventID   string    `json:"calendar_event_id,omitempty"`
	ReminderSent      bool      `json:"reminder_sent"`
	CreatedAt         time.Time `json:"created_at"`
}

// BookingRequest is the request body for creating an appointment. Date fields
// use YYYY-MM-DD; appointment_date, time_slot and preferred_doctor are
// optional — when date and slot are omitted the next available slot is
// auto-assigned.
type BookingRequest struct {
	PatientName       string `json:"patient_name"`
	PatientPhone      string `json:"patient_phone"`
	PatientEmail      string `json:"patient_email"`
	DateOfBirth       string `json:"date_of_birth"`
	Gender            string `json:"gender,omitempty"`
	Symptoms          string `json:"symptoms"`
	KnownAllergies    string `json:"known_allergies,omitempty"`
	CurrentMedication string `json:"current_medication,omitempty"`
	MedicalHistory    string `json:"medical_history,omitempty"`
	AdditionalNote    string `json:"additional_note,omitempty"`
	AppointmentDate   string `json:"appointment_date,omitempty"`
	TimeSlot          string `json:"time_slot,omitempty"`
	PreferredDoctor   string `json:"preferred_doctor,omitempty"`
}

const dateLayout = "2006-01-02"

// Validate checks the required fields before any side effect runs.
func (r *BookingRequest) Validate() error {
	missing := r.PatientName == "" || r.PatientPhone == "" || r.PatientEmail == "" ||
		r.DateOfBirth == "" || r.Symptoms == ""
	if missing {
		return fmt.Errorf("%w: patient_name, patient_phone, patient_email, date_of_birth and symptoms are required", ErrValidation)
	}
	if _, err := time.Parse(dateLayout, r.DateOfBirth); err != nil {
		return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrValidation)
	}
	if r.AppointmentDate != "" {
		if _, err := time.Parse(dateLayout, r.AppointmentDate); err != nil {
			return fmt.Errorf("%w: appointment_date must be YYYY-MM-DD", ErrValidation)
		}
	}
	return nil
}

// BirthDate parses the validated date_of_birth field.
func (r *BookingRequest) BirthDate() (time.Time, error) {
	return time.Parse(dateLayout, r.DateOfBirth)
}

// HasExplicitSlot reports whether the caller supplied both date and time,
// which skips the auto-assignment search.
func (r *BookingRequest) HasExplicitSlot() bool {
	return strings.TrimSpace(r.AppointmentDate) != "" && strings.TrimSpace(r.TimeSlot) != ""
}

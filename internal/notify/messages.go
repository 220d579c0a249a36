package notify

import (
	"fmt"
	"time"

	"github.com/caresync/clinic-scheduler/internal/appointments"
)

const apptTimeLayout = "2006-01-02 15:04 MST"

// ConfirmationEmail builds the booking confirmation message for a patient.
func ConfirmationEmail(appt *appointments.Appointment, clinicName string, loc *time.Location) EmailMessage {
	when := appt.AppointmentTime.In(loc).Format(apptTimeLayout)
	body := fmt.Sprintf(`Hi %s,

Your appointment at %s is confirmed.

Doctor: %s
Time: %s
Notes: %s

Please arrive ten minutes early and bring a photo ID.

— %s`, appt.PatientName, clinicName, appt.Doctor, when, appt.Summary, clinicName)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #0ea5e9;">Appointment Confirmed</h2>
<p>Hi <strong>%s</strong>, your appointment at %s is confirmed.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Doctor:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Time:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Notes:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
<p>Please arrive ten minutes early and bring a photo ID.</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— %s</p>
</div>`, appt.PatientName, clinicName, appt.Doctor, when, appt.Summary, clinicName)

	return EmailMessage{
		To:      appt.PatientEmail,
		ToName:  appt.PatientName,
		Subject: fmt.Sprintf("Appointment Confirmation: %s", appt.PatientName),
		Body:    body,
		HTML:    html,
	}
}

// ReminderEmail builds the day-before reminder message for a patient.
func ReminderEmail(appt *appointments.Appointment, clinicName string, loc *time.Location) EmailMessage {
	when := appt.AppointmentTime.In(loc).Format(apptTimeLayout)
	body := fmt.Sprintf(`Hi %s,

This is a reminder of your upcoming appointment at %s.

Doctor: %s
Time: %s
Notes: %s

Please arrive ten minutes early.

— %s`, appt.PatientName, clinicName, appt.Doctor, when, appt.Summary, clinicName)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #f59e0b;">Appointment Reminder</h2>
<p>Hi <strong>%s</strong>, you have an upcoming appointment at %s.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Doctor:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Time:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Notes:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
<p>Please arrive ten minutes early.</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— %s</p>
</div>`, appt.PatientName, clinicName, appt.Doctor, when, appt.Summary, clinicName)

	return EmailMessage{
		To:      appt.PatientEmail,
		ToName:  appt.PatientName,
		Subject: fmt.Sprintf("Appointment Reminder: %s", appt.PatientName),
		Body:    body,
		HTML:    html,
	}
}

// ConfirmationSMS builds the short confirmation text.
func ConfirmationSMS(appt *appointments.Appointment, clinicName string, loc *time.Location) string {
	return fmt.Sprintf("Hi %s, your appointment with %s at %s is confirmed for %s. Contact us if needed.",
		appt.PatientName, appt.Doctor, clinicName, appt.AppointmentTime.In(loc).Format(apptTimeLayout))
}

// ReminderSMS builds the short reminder text.
func ReminderSMS(appt *appointments.Appointment, clinicName string, loc *time.Location) string {
	return fmt.Sprintf("Reminder: %s, you have an appointment with %s at %s on %s. Please arrive early.",
		appt.PatientName, appt.Doctor, clinicName, appt.AppointmentTime.In(loc).Format(apptTimeLayout))
}

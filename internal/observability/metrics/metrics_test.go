package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewSchedulingMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveBooking("success", 0.25)
	m.ObserveBooking("slot_taken", 0.1)
	m.ObserveCompensation(true)
	m.ObserveCompensation(false)
	m.ObserveReminder("sent")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"caresync_scheduling_bookings_total",
		"caresync_scheduling_compensations_total",
		"caresync_scheduling_reminders_total",
		"caresync_scheduling_booking_duration_seconds",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveBooking("success", 0)
	m.ObserveCompensation(true)
	m.ObserveReminder("failed")
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for booking and reminder flows.
type SchedulingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	compensationsTotal *prometheus.CounterVec
	remindersTotal     *prometheus.CounterVec
	bookingLatency     prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caresync",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking transactions by outcome",
		}, []string{"outcome"}),
		compensationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caresync",
			Subsystem: "scheduling",
			Name:      "compensations_total",
			Help:      "Calendar event deletions run on the booking failure path",
		}, []string{"status"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caresync",
			Subsystem: "scheduling",
			Name:      "reminders_total",
			Help:      "Reminder sends by status",
		}, []string{"status"}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caresync",
			Subsystem: "scheduling",
			Name:      "booking_duration_seconds",
			Help:      "End-to-end latency of the booking transaction",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.compensationsTotal, m.remindersTotal, m.bookingLatency)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
	m.bookingLatency.Observe(seconds)
}

func (m *SchedulingMetrics) ObserveCompensation(succeeded bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !succeeded {
		status = "failed"
	}
	m.compensationsTotal.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(status).Inc()
}

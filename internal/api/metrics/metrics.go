// Package metrics defines and registers all custom Prometheus metrics for
// the vaccination API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics use promauto and register with the default registry at package
// load; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "petvax"

// LoginsTotal counts login attempts by portal and outcome
// ("ok", "otp_required", "denied").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by portal and outcome.",
	},
	[]string{"portal", "outcome"},
)

// OTPVerificationsTotal counts OTP checks by result ("ok", "invalid",
// "locked").
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, by result.",
	},
	[]string{"result"},
)

// AppointmentsBookedTotal counts successful bookings by the booking role.
var AppointmentsBookedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_booked_total",
		Help:      "Total number of appointments booked, by caller role.",
	},
	[]string{"role"},
)

// SlotConflictsTotal counts bookings rejected because the slot was taken.
var SlotConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of bookings rejected due to a taken slot.",
	},
)

// StockMovementsTotal counts inventory receipts and exports.
var StockMovementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movements_total",
		Help:      "Total number of batch stock movements, by kind.",
	},
	[]string{"kind"},
)

// RemindersDeliveredTotal counts reminder deliveries by result
// ("ok", "error").
var RemindersDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_delivered_total",
		Help:      "Total number of appointment reminder deliveries, by result.",
	},
	[]string{"result"},
)

// ReminderQueueDepth tracks the number of jobs waiting in each worker channel.
var ReminderQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reminder_queue_depth",
		Help:      "Current number of reminder jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

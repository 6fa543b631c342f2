// Package metrics defines all custom Prometheus metrics for the reservation
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fleet"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts created accounts.
// Label:
//   - role: role assigned at creation ("Admin" or "User")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by assigned role.",
	},
	[]string{"role"},
)

// VerificationCodesIssuedTotal counts issued verification codes.
// Label:
//   - purpose: "admin_registration" or "password_reset"
var VerificationCodesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_codes_issued_total",
		Help:      "Total number of verification codes issued, by purpose.",
	},
	[]string{"purpose"},
)

// VerificationFailuresTotal counts rejected code validations (wrong,
// expired or already consumed — not distinguished on purpose).
var VerificationFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_failures_total",
		Help:      "Total number of verification code validations that failed.",
	},
)

// MailsTotal counts outbound email deliveries.
// Label:
//   - result: "sent" or "error"
var MailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_total",
		Help:      "Total number of outbound email deliveries, by result.",
	},
	[]string{"result"},
)

// ReservationsCreatedTotal counts created reservations.
var ReservationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations created.",
	},
)

// ReservationDecisionsTotal counts approve/reject decisions.
// Labels:
//   - decision: "approved" or "rejected"
//   - channel: "panel" or "link"
var ReservationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_decisions_total",
		Help:      "Total number of reservation decisions, by decision and channel.",
	},
	[]string{"decision", "channel"},
)

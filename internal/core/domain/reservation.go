package domain

import "time"

// ReservationStatus is the approval state of a reservation.
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationApproved ReservationStatus = "approved"
	ReservationRejected ReservationStatus = "rejected"
)

// Reservation is a request to use a vehicle with a driver on a given date.
// It is stamped with the creating account and its tenant, and starts out
// pending until an admin decides it.
type Reservation struct {
	ID              string            `json:"id"`
	TenantName      string            `json:"tenant_name"`
	AccountID       string            `json:"account_id"`
	VehicleID       string            `json:"vehicle_id"`
	DriverID        string            `json:"driver_id"`
	ReservationDate time.Time         `json:"reservation_date"`
	StartDate       *time.Time        `json:"start_date,omitempty"`
	EndDate         *time.Time        `json:"end_date,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Status          ReservationStatus `json:"status"`
	DecidedBy       string            `json:"decided_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Decided reports whether an approve/reject decision has been recorded.
func (r *Reservation) Decided() bool {
	return r.Status != ReservationPending
}

// DecisionRef is what a single-use email decision token resolves to.
type DecisionRef struct {
	ReservationID string
	Approve       bool
}

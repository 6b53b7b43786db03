package domain

import "time"

// Appointment is a free-form private appointment request, distinct from
// slot bookings: it names a service type and a preferred date/time, and
// doesn't consume slot capacity.
type Appointment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"` // e.g. "2026-09-14"
	Time        string    `json:"time"` // e.g. "10:00"
	ServiceType string    `json:"service_type"`
	CreatedAt   time.Time `json:"created_at"`
}

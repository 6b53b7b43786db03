package domain

import "time"

// Booking ties a user to a slot. A user can hold at most one booking
// per slot; the store enforces this with a unique constraint.
type Booking struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	SlotID           string    `json:"slot_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	CreatedAt        time.Time `json:"created_at"`
}

// BookingDetail is a booking joined with its slot for list views.
type BookingDetail struct {
	Booking
	Day  string `json:"day"`
	Time string `json:"time"`
}

// RosterEntry is a booking joined with its user, for the admin roster view.
type RosterEntry struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	BookedAt  time.Time `json:"booked_at"`
}

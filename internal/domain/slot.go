package domain

import "time"

// Slot represents a bookable time slot published by an admin.
// Capacity is tracked with a live counter: RemainingSpots starts at
// TotalSpots and is decremented atomically as bookings are taken.
type Slot struct {
	ID             string    `json:"id"`
	Day            string    `json:"day"`  // e.g. "2026-09-14"
	Time           string    `json:"time"` // e.g. "18:30"
	TotalSpots     int       `json:"total_spots"`
	RemainingSpots int       `json:"remaining_spots"`
	CreatedBy      string    `json:"created_by"` // Admin user ID
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Available reports whether the slot still has free spots.
func (s *Slot) Available() bool {
	return s.RemainingSpots > 0
}

// BookedCount returns the number of spots already taken.
func (s *Slot) BookedCount() int {
	return s.TotalSpots - s.RemainingSpots
}

// Package store defines the persistence interface for the studio server.
package store

import (
	"context"

	"github.com/corestudio/studio-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountAdmins(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Slots
	CreateSlot(ctx context.Context, slot *domain.Slot) error
	GetSlot(ctx context.Context, id string) (*domain.Slot, error)
	ListSlots(ctx context.Context) ([]*domain.Slot, error)
	// UpdateSlotCapacity recomputes remaining spots from the new total and
	// the current booked count, inside one transaction.
	UpdateSlotCapacity(ctx context.Context, slotID string, day, timeOfDay string, newTotal int) (*domain.Slot, error)
	// DeleteSlot removes a slot only if it has no bookings.
	DeleteSlot(ctx context.Context, id string) error

	// Bookings
	// CreateBooking atomically claims a spot: it decrements the slot's
	// remaining counter only while spots remain, and inserts the booking
	// row, all in one transaction.
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]*domain.BookingDetail, error)
	ListSlotRoster(ctx context.Context, slotID string) ([]*domain.RosterEntry, error)

	// Appointments
	CreateAppointment(ctx context.Context, appt *domain.Appointment) error
	ListUserAppointments(ctx context.Context, userID string) ([]*domain.Appointment, error)
	ListAppointments(ctx context.Context) ([]*domain.Appointment, error)
}

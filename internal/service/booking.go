package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corestudio/studio-server/internal/domain"
	domainerrors "github.com/corestudio/studio-server/internal/errors"
	"github.com/corestudio/studio-server/internal/id"
	"github.com/corestudio/studio-server/internal/store"
)

// BookingService handles spot reservations against published slots.
type BookingService struct {
	store  store.Store
	logger *slog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(store store.Store, logger *slog.Logger) *BookingService {
	return &BookingService{store: store, logger: logger}
}

// BookRequest names the slot to reserve a spot in.
type BookRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
}

// Book reserves one spot in a slot for the user. Admins manage slots but
// don't take spots in them, so they are rejected outright.
//
// The store claims the spot atomically: under concurrency a full slot
// yields SLOT_FULL for the losers and the remaining counter never goes
// negative.
func (s *BookingService) Book(ctx context.Context, user *domain.User, req BookRequest) (*domain.Booking, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if user.IsAdmin() {
		return nil, domainerrors.Forbidden("admins cannot book slots")
	}

	bookingID, err := id.Generate("booking")
	if err != nil {
		return nil, fmt.Errorf("generate booking ID: %w", err)
	}

	booking := &domain.Booking{
		ID:               bookingID,
		UserID:           user.ID,
		SlotID:           req.SlotID,
		ConfirmationCode: uuid.NewString(),
		CreatedAt:        time.Now(),
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		var storeErr *store.Error
		switch {
		case errors.Is(err, store.ErrSlotFull):
			return nil, domainerrors.SlotFull("slot has no remaining spots")
		case errors.Is(err, store.ErrAlreadyBooked):
			return nil, domainerrors.AlreadyBooked("you already booked this slot")
		case errors.As(err, &storeErr) && storeErr.HTTPCode() == store.ErrNotFound.HTTPCode():
			return nil, domainerrors.NotFound("slot not found")
		default:
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Booking confirmed",
			"booking_id", bookingID,
			"user_id", user.ID,
			"slot_id", req.SlotID,
		)
	}

	return booking, nil
}

// ListUserBookings returns the calling user's bookings with slot schedules.
func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]*domain.BookingDetail, error) {
	bookings, err := s.store.ListUserBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListSlotRoster returns who booked a slot, for the admin roster view.
func (s *BookingService) ListSlotRoster(ctx context.Context, slotID string) ([]*domain.RosterEntry, error) {
	roster, err := s.store.ListSlotRoster(ctx, slotID)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.HTTPCode() == store.ErrNotFound.HTTPCode() {
			return nil, domainerrors.NotFound("slot not found")
		}
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return roster, nil
}

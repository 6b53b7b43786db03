package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corestudio/studio-server/internal/domain"
	domainerrors "github.com/corestudio/studio-server/internal/errors"
	"github.com/corestudio/studio-server/internal/id"
	"github.com/corestudio/studio-server/internal/store"
)

// SlotService handles admin-managed time slot publishing and editing.
type SlotService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSlotService creates a new slot management service.
func NewSlotService(store store.Store, logger *slog.Logger) *SlotService {
	return &SlotService{store: store, logger: logger}
}

// CreateSlotRequest contains the schedule and capacity for a new slot.
// Day and time are free-form labels ("2026-09-14", "Mon", "9:00").
type CreateSlotRequest struct {
	Day        string `json:"day" validate:"required,max=50"`
	Time       string `json:"time" validate:"required,max=50"`
	TotalSpots int    `json:"total_spots" validate:"required,gt=0"`
}

// UpdateSlotRequest contains a partial slot edit. Nil fields keep the
// stored values.
type UpdateSlotRequest struct {
	Day        *string `json:"day,omitempty" validate:"omitempty,min=1,max=50"`
	Time       *string `json:"time,omitempty" validate:"omitempty,min=1,max=50"`
	TotalSpots *int    `json:"total_spots,omitempty" validate:"omitempty,gt=0"`
}

// CreateSlot publishes a new bookable slot. The remaining counter starts
// equal to the total capacity.
func (s *SlotService) CreateSlot(ctx context.Context, adminID string, req CreateSlotRequest) (*domain.Slot, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	slotID, err := id.Generate("slot")
	if err != nil {
		return nil, fmt.Errorf("generate slot ID: %w", err)
	}

	now := time.Now()
	slot := &domain.Slot{
		ID:             slotID,
		Day:            req.Day,
		Time:           req.Time,
		TotalSpots:     req.TotalSpots,
		RemainingSpots: req.TotalSpots,
		CreatedBy:      adminID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Slot published",
			"slot_id", slotID,
			"day", slot.Day,
			"time", slot.Time,
			"total_spots", slot.TotalSpots,
		)
	}

	return slot, nil
}

// GetSlot returns a single slot.
func (s *SlotService) GetSlot(ctx context.Context, slotID string) (*domain.Slot, error) {
	slot, err := s.store.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("slot not found")
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

// ListSlots returns every published slot ordered by schedule.
func (s *SlotService) ListSlots(ctx context.Context) ([]*domain.Slot, error) {
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ListAvailableSlots returns only slots that still have spots left.
// This is what regular users see when browsing the schedule.
func (s *SlotService) ListAvailableSlots(ctx context.Context) ([]*domain.Slot, error) {
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	available := make([]*domain.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available() {
			available = append(available, slot)
		}
	}
	return available, nil
}

// UpdateSlot edits a slot's schedule and capacity. Omitted fields keep
// their stored values. The remaining counter is recomputed from the live
// booked count; shrinking below that count fails with INVALID_CAPACITY
// and leaves the slot untouched.
func (s *SlotService) UpdateSlot(ctx context.Context, slotID string, req UpdateSlotRequest) (*domain.Slot, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	current, err := s.store.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("slot not found")
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}

	day, timeOfDay, total := current.Day, current.Time, current.TotalSpots
	if req.Day != nil {
		day = *req.Day
	}
	if req.Time != nil {
		timeOfDay = *req.Time
	}
	if req.TotalSpots != nil {
		total = *req.TotalSpots
	}

	slot, err := s.store.UpdateSlotCapacity(ctx, slotID, day, timeOfDay, total)
	if err != nil {
		var storeErr *store.Error
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("slot not found")
		case errors.As(err, &storeErr) && storeErr.HTTPCode() == store.ErrCapacityTooLow.HTTPCode():
			return nil, domainerrors.InvalidCapacity(storeErr.Message)
		default:
			return nil, fmt.Errorf("update slot: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Slot updated",
			"slot_id", slotID,
			"total_spots", slot.TotalSpots,
			"remaining_spots", slot.RemainingSpots,
		)
	}

	return slot, nil
}

// DeleteSlot removes a slot that has no bookings. Slots with bookings
// are rejected with HAS_BOOKINGS rather than silently stranding them.
func (s *SlotService) DeleteSlot(ctx context.Context, slotID string) error {
	if err := s.store.DeleteSlot(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domainerrors.NotFound("slot not found")
		case errors.Is(err, store.ErrHasBookings):
			return domainerrors.HasBookings("slot has active bookings and cannot be deleted")
		default:
			return fmt.Errorf("delete slot: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Slot deleted", "slot_id", slotID)
	}
	return nil
}

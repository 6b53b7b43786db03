package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/store"
)

// makeTestSlot creates a slot with sensible defaults. The creating admin
// must already exist (foreign key).
func makeTestSlot(id string, total int) *domain.Slot {
	now := time.Now()
	return &domain.Slot{
		ID:             id,
		Day:            "2026-09-14",
		Time:           "18:30",
		TotalSpots:     total,
		RemainingSpots: total,
		CreatedBy:      "user-admin",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// seedAdmin inserts the admin user referenced by makeTestSlot.
func seedAdmin(t *testing.T, s *Store) {
	t.Helper()
	admin := makeTestUser("user-admin", "root", "root@example.com")
	admin.Role = domain.RoleAdmin
	if err := s.CreateUser(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func TestCreateAndGetSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	slot := makeTestSlot("slot-1", 5)
	if err := s.CreateSlot(ctx, slot); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}

	got, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if got.Day != "2026-09-14" || got.Time != "18:30" {
		t.Errorf("schedule: got %s %s", got.Day, got.Time)
	}
	if got.TotalSpots != 5 || got.RemainingSpots != 5 {
		t.Errorf("capacity: got total=%d remaining=%d", got.TotalSpots, got.RemainingSpots)
	}
	if got.CreatedBy != "user-admin" {
		t.Errorf("CreatedBy: got %q", got.CreatedBy)
	}
}

func TestGetSlot_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSlot(context.Background(), "slot-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListSlots_Ordered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	a := makeTestSlot("slot-a", 3)
	a.Day, a.Time = "2026-09-15", "10:00"
	b := makeTestSlot("slot-b", 3)
	b.Day, b.Time = "2026-09-14", "18:30"
	c := makeTestSlot("slot-c", 3)
	c.Day, c.Time = "2026-09-14", "09:00"

	for _, slot := range []*domain.Slot{a, b, c} {
		if err := s.CreateSlot(ctx, slot); err != nil {
			t.Fatalf("CreateSlot %s: %v", slot.ID, err)
		}
	}

	slots, err := s.ListSlots(ctx)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	wantOrder := []string{"slot-c", "slot-b", "slot-a"}
	for i, want := range wantOrder {
		if slots[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, slots[i].ID, want)
		}
	}
}

func TestUpdateSlotCapacity_Recomputes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	slot := makeTestSlot("slot-1", 5)
	if err := s.CreateSlot(ctx, slot); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}

	// Two bookings against the slot.
	for _, name := range []string{"alice", "bob"} {
		if err := s.CreateUser(ctx, makeTestUser("user-"+name, name, name+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if err := s.CreateBooking(ctx, makeTestBooking("booking-"+name, "user-"+name, "slot-1")); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	// Grow to 10: remaining becomes 10 - 2 = 8.
	updated, err := s.UpdateSlotCapacity(ctx, "slot-1", "2026-09-20", "19:00", 10)
	if err != nil {
		t.Fatalf("UpdateSlotCapacity: %v", err)
	}
	if updated.TotalSpots != 10 || updated.RemainingSpots != 8 {
		t.Errorf("after grow: total=%d remaining=%d, want 10/8", updated.TotalSpots, updated.RemainingSpots)
	}
	if updated.Day != "2026-09-20" || updated.Time != "19:00" {
		t.Errorf("schedule not updated: %s %s", updated.Day, updated.Time)
	}

	// Shrink to exactly the booked count: remaining becomes 0.
	updated, err = s.UpdateSlotCapacity(ctx, "slot-1", "2026-09-20", "19:00", 2)
	if err != nil {
		t.Fatalf("UpdateSlotCapacity shrink: %v", err)
	}
	if updated.TotalSpots != 2 || updated.RemainingSpots != 0 {
		t.Errorf("after shrink: total=%d remaining=%d, want 2/0", updated.TotalSpots, updated.RemainingSpots)
	}
}

func TestUpdateSlotCapacity_BelowBooked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", 5)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	for _, name := range []string{"alice", "bob"} {
		if err := s.CreateUser(ctx, makeTestUser("user-"+name, name, name+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if err := s.CreateBooking(ctx, makeTestBooking("booking-"+name, "user-"+name, "slot-1")); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	_, err := s.UpdateSlotCapacity(ctx, "slot-1", "2026-09-14", "18:30", 1)
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.HTTPCode() != 409 {
		t.Errorf("expected capacity conflict, got %v", err)
	}

	// Slot untouched.
	got, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if got.TotalSpots != 5 || got.RemainingSpots != 3 {
		t.Errorf("slot changed by failed update: total=%d remaining=%d", got.TotalSpots, got.RemainingSpots)
	}
}

func TestUpdateSlotCapacity_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateSlotCapacity(context.Background(), "slot-missing", "2026-09-14", "18:30", 5)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// The slots table enforces 0 <= remaining_spots <= total_spots even for
// writers that bypass the store methods.
func TestSlotCounterBounds_EnforcedBySchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", 3)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE slots SET remaining_spots = total_spots + 1 WHERE id = ?`, "slot-1"); err == nil {
		t.Error("expected CHECK violation for remaining above total, got nil")
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE slots SET remaining_spots = -1 WHERE id = ?`, "slot-1"); err == nil {
		t.Error("expected CHECK violation for negative remaining, got nil")
	}

	got, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if got.RemainingSpots != 3 {
		t.Errorf("RemainingSpots: got %d, want 3", got.RemainingSpots)
	}
}

func TestDeleteSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", 5)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}

	if err := s.DeleteSlot(ctx, "slot-1"); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}

	_, err := s.GetSlot(ctx, "slot-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteSlot(ctx, "slot-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteSlot_WithBookings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", 5)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-alice", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateBooking(ctx, makeTestBooking("booking-1", "user-alice", "slot-1")); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	err := s.DeleteSlot(ctx, "slot-1")
	if !errors.Is(err, store.ErrHasBookings) {
		t.Errorf("expected ErrHasBookings, got %v", err)
	}

	// Slot and booking both survive the rejected delete.
	if _, err := s.GetSlot(ctx, "slot-1"); err != nil {
		t.Errorf("slot should survive: %v", err)
	}
	if _, err := s.GetBooking(ctx, "booking-1"); err != nil {
		t.Errorf("booking should survive: %v", err)
	}
}

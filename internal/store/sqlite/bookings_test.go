package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/store"
)

func makeTestBooking(id, userID, slotID string) *domain.Booking {
	return &domain.Booking{
		ID:               id,
		UserID:           userID,
		SlotID:           slotID,
		ConfirmationCode: "code-" + id,
		CreatedAt:        time.Now(),
	}
}

func TestCreateBooking_DecrementsCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", 3)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-alice", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := s.CreateBooking(ctx, makeTestBooking("booking-1", "user-alice", "slot-1")); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	slot, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot.RemainingSpots != 2 {
		t.Errorf("RemainingSpots: got %d, want 2", slot.RemainingSpots)
	}

	got, err := s.GetBooking(ctx, "booking-1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.ConfirmationCode != "code-booking-1" {
		t.Errorf("ConfirmationCode: got %q", got.ConfirmationCode)
	}
}

func TestCreateBooking_SlotNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateUser(ctx, makeTestUser("user-alice", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err := s.CreateBooking(ctx, makeTestBooking("booking-1", "user-alice", "slot-missing"))
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.HTTPCode() != 404 {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCreateBooking_SlotFull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", 1)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	for _, name := range []string{"alice", "bob"} {
		if err := s.CreateUser(ctx, makeTestUser("user-"+name, name, name+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	if err := s.CreateBooking(ctx, makeTestBooking("booking-1", "user-alice", "slot-1")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	err := s.CreateBooking(ctx, makeTestBooking("booking-2", "user-bob", "slot-1"))
	if !errors.Is(err, store.ErrSlotFull) {
		t.Errorf("expected ErrSlotFull, got %v", err)
	}

	// Counter stays at zero, never negative.
	slot, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot.RemainingSpots != 0 {
		t.Errorf("RemainingSpots: got %d, want 0", slot.RemainingSpots)
	}
}

func TestCreateBooking_Duplicate(t *testing.T) {
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
		t.Fatalf("first booking: %v", err)
	}

	err := s.CreateBooking(ctx, makeTestBooking("booking-2", "user-alice", "slot-1"))
	if !errors.Is(err, store.ErrAlreadyBooked) {
		t.Errorf("expected ErrAlreadyBooked, got %v", err)
	}

	// The rolled-back attempt must not burn a spot.
	slot, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot.RemainingSpots != 4 {
		t.Errorf("RemainingSpots: got %d, want 4", slot.RemainingSpots)
	}
}

func TestCreateBooking_ConcurrentNeverOverbooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	const spots = 3
	const contenders = 20

	if err := s.CreateSlot(ctx, makeTestSlot("slot-1", spots)); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	for i := 0; i < contenders; i++ {
		name := fmt.Sprintf("racer%d", i)
		if err := s.CreateUser(ctx, makeTestUser("user-"+name, name, name+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("racer%d", i)
			results[i] = s.CreateBooking(ctx, makeTestBooking("booking-"+name, "user-"+name, "slot-1"))
		}(i)
	}
	wg.Wait()

	var won, full int
	for i, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, store.ErrSlotFull):
			full++
		default:
			t.Errorf("contender %d: unexpected error %v", i, err)
		}
	}

	if won != spots {
		t.Errorf("winners: got %d, want %d", won, spots)
	}
	if full != contenders-spots {
		t.Errorf("losers: got %d, want %d", full, contenders-spots)
	}

	slot, err := s.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot.RemainingSpots != 0 {
		t.Errorf("RemainingSpots: got %d, want 0", slot.RemainingSpots)
	}

	roster, err := s.ListSlotRoster(ctx, "slot-1")
	if err != nil {
		t.Fatalf("ListSlotRoster: %v", err)
	}
	if len(roster) != spots {
		t.Errorf("roster size: got %d, want %d", len(roster), spots)
	}
}

func TestListUserBookings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAdmin(t, s)

	early := makeTestSlot("slot-early", 5)
	early.Day, early.Time = "2026-09-14", "09:00"
	late := makeTestSlot("slot-late", 5)
	late.Day, late.Time = "2026-09-14", "18:30"
	for _, slot := range []*domain.Slot{late, early} {
		if err := s.CreateSlot(ctx, slot); err != nil {
			t.Fatalf("CreateSlot: %v", err)
		}
	}
	if err := s.CreateUser(ctx, makeTestUser("user-alice", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	for _, slotID := range []string{"slot-late", "slot-early"} {
		if err := s.CreateBooking(ctx, makeTestBooking("booking-"+slotID, "user-alice", slotID)); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	bookings, err := s.ListUserBookings(ctx, "user-alice")
	if err != nil {
		t.Fatalf("ListUserBookings: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	// Ordered by slot schedule, not insertion.
	if bookings[0].SlotID != "slot-early" {
		t.Errorf("first booking: got %s, want slot-early", bookings[0].SlotID)
	}
	if bookings[0].Day != "2026-09-14" || bookings[0].Time != "09:00" {
		t.Errorf("joined schedule: got %s %s", bookings[0].Day, bookings[0].Time)
	}

	// User with no bookings gets an empty list.
	none, err := s.ListUserBookings(ctx, "user-admin")
	if err != nil {
		t.Fatalf("ListUserBookings: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no bookings, got %d", len(none))
	}
}

func TestListSlotRoster(t *testing.T) {
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

	roster, err := s.ListSlotRoster(ctx, "slot-1")
	if err != nil {
		t.Fatalf("ListSlotRoster: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(roster))
	}
	if roster[0].Username == "" || roster[0].Email == "" {
		t.Error("roster entries should carry user identity")
	}

	_, err = s.ListSlotRoster(ctx, "slot-missing")
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.HTTPCode() != 404 {
		t.Errorf("expected not found error, got %v", err)
	}
}

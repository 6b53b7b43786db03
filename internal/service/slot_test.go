package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corestudio/studio-server/internal/domain"
	domainerrors "github.com/corestudio/studio-server/internal/errors"
)

func mustCreateSlot(t *testing.T, env *testEnv, adminID string, total int) *domain.Slot {
	t.Helper()
	slot, err := env.slots.CreateSlot(context.Background(), adminID, CreateSlotRequest{
		Day:        "2026-09-14",
		Time:       "18:30",
		TotalSpots: total,
	})
	require.NoError(t, err)
	return slot
}

func TestCreateSlot(t *testing.T) {
	env := newTestEnv(t)
	admin := mustSetup(t, env)

	slot := mustCreateSlot(t, env, admin.User.ID, 5)
	assert.Equal(t, 5, slot.TotalSpots)
	assert.Equal(t, 5, slot.RemainingSpots)
	assert.Equal(t, admin.User.ID, slot.CreatedBy)
	assert.True(t, slot.Available())
}

func TestCreateSlot_Validation(t *testing.T) {
	env := newTestEnv(t)
	admin := mustSetup(t, env)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateSlotRequest
	}{
		{"zero capacity", CreateSlotRequest{Day: "2026-09-14", Time: "18:30", TotalSpots: 0}},
		{"negative capacity", CreateSlotRequest{Day: "2026-09-14", Time: "18:30", TotalSpots: -3}},
		{"missing day", CreateSlotRequest{Time: "18:30", TotalSpots: 5}},
		{"missing time", CreateSlotRequest{Day: "2026-09-14", TotalSpots: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.slots.CreateSlot(ctx, admin.User.ID, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "got %v", err)
		})
	}
}

func ptr[T any](v T) *T { return &v }

// Day and time are free-form labels, not parsed dates.
func TestCreateSlot_FreeFormSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)

	slot, err := env.slots.CreateSlot(ctx, admin.User.ID, CreateSlotRequest{
		Day:        "Mon",
		Time:       "9:00",
		TotalSpots: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mon", slot.Day)
	assert.Equal(t, "9:00", slot.Time)

	for _, name := range []string{"maria", "luca", "sam"} {
		u := mustRegister(t, env, name)
		_, err := env.bookings.Book(ctx, u.User, BookRequest{SlotID: slot.ID})
		require.NoError(t, err)
	}

	late := mustRegister(t, env, "nina")
	_, err = env.bookings.Book(ctx, late.User, BookRequest{SlotID: slot.ID})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrSlotFull), "got %v", err)
}

func TestUpdateSlot_RecomputesRemaining(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)
	slot := mustCreateSlot(t, env, admin.User.ID, 5)

	maria := mustRegister(t, env, "maria")
	_, err := env.bookings.Book(ctx, maria.User, BookRequest{SlotID: slot.ID})
	require.NoError(t, err)

	updated, err := env.slots.UpdateSlot(ctx, slot.ID, UpdateSlotRequest{
		Day:        ptr("2026-09-15"),
		Time:       ptr("19:00"),
		TotalSpots: ptr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.TotalSpots)
	assert.Equal(t, 7, updated.RemainingSpots)
	assert.Equal(t, 1, updated.BookedCount())
}

// A capacity-only edit keeps the stored day and time.
func TestUpdateSlot_PartialEdit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)
	slot := mustCreateSlot(t, env, admin.User.ID, 5)

	updated, err := env.slots.UpdateSlot(ctx, slot.ID, UpdateSlotRequest{
		TotalSpots: ptr(9),
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TotalSpots)
	assert.Equal(t, 9, updated.RemainingSpots)
	assert.Equal(t, slot.Day, updated.Day)
	assert.Equal(t, slot.Time, updated.Time)

	// And a schedule-only edit keeps the capacity.
	updated, err = env.slots.UpdateSlot(ctx, slot.ID, UpdateSlotRequest{
		Day: ptr("2026-09-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-20", updated.Day)
	assert.Equal(t, slot.Time, updated.Time)
	assert.Equal(t, 9, updated.TotalSpots)
}

func TestUpdateSlot_BelowBookedCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)
	slot := mustCreateSlot(t, env, admin.User.ID, 5)

	for _, name := range []string{"maria", "luca"} {
		u := mustRegister(t, env, name)
		_, err := env.bookings.Book(ctx, u.User, BookRequest{SlotID: slot.ID})
		require.NoError(t, err)
	}

	_, err := env.slots.UpdateSlot(ctx, slot.ID, UpdateSlotRequest{
		TotalSpots: ptr(1),
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCapacity), "got %v", err)

	// Slot is unchanged after the rejected edit.
	got, err := env.slots.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalSpots)
	assert.Equal(t, 3, got.RemainingSpots)
}

func TestUpdateSlot_NotFound(t *testing.T) {
	env := newTestEnv(t)
	mustSetup(t, env)

	_, err := env.slots.UpdateSlot(context.Background(), "slot-missing", UpdateSlotRequest{
		TotalSpots: ptr(5),
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteSlot_Empty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)
	slot := mustCreateSlot(t, env, admin.User.ID, 5)

	require.NoError(t, env.slots.DeleteSlot(ctx, slot.ID))

	_, err := env.slots.GetSlot(ctx, slot.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteSlot_WithBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)
	slot := mustCreateSlot(t, env, admin.User.ID, 5)

	maria := mustRegister(t, env, "maria")
	_, err := env.bookings.Book(ctx, maria.User, BookRequest{SlotID: slot.ID})
	require.NoError(t, err)

	err = env.slots.DeleteSlot(ctx, slot.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrHasBookings), "got %v", err)

	// Slot and booking both survive.
	_, err = env.slots.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	mine, err := env.bookings.ListUserBookings(ctx, maria.User.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListSlots(t *testing.T) {
	env := newTestEnv(t)
	admin := mustSetup(t, env)

	mustCreateSlot(t, env, admin.User.ID, 5)

	slots, err := env.slots.ListSlots(context.Background())
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestListAvailableSlots_SkipsFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := mustSetup(t, env)
	maria := mustRegister(t, env, "maria")

	full := mustCreateSlot(t, env, admin.User.ID, 1)
	open := mustCreateSlot(t, env, admin.User.ID, 3)

	_, err := env.bookings.Book(ctx, maria.User, BookRequest{SlotID: full.ID})
	require.NoError(t, err)

	available, err := env.slots.ListAvailableSlots(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, open.ID, available[0].ID)

	// The full listing still shows both.
	all, err := env.slots.ListSlots(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

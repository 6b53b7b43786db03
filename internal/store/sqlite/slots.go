package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/store"
)

const slotColumns = `id, day, time, total_spots, remaining_spots, created_by, created_at, updated_at`

func scanSlot(scanner interface{ Scan(dest ...any) error }) (*domain.Slot, error) {
	var slot domain.Slot

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&slot.ID,
		&slot.Day,
		&slot.Time,
		&slot.TotalSpots,
		&slot.RemainingSpots,
		&slot.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	slot.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

// CreateSlot inserts a new slot.
func (s *Store) CreateSlot(ctx context.Context, slot *domain.Slot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (id, day, time, total_spots, remaining_spots, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		slot.ID,
		slot.Day,
		slot.Time,
		slot.TotalSpots,
		slot.RemainingSpots,
		slot.CreatedBy,
		formatTime(slot.CreatedAt),
		formatTime(slot.UpdatedAt),
	)
	return err
}

// GetSlot retrieves a slot by ID.
// Returns store.ErrNotFound if the slot does not exist.
func (s *Store) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)

	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// ListSlots returns all slots ordered by day and time.
func (s *Store) ListSlots(ctx context.Context) ([]*domain.Slot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slots ORDER BY day ASC, time ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*domain.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateSlotCapacity changes a slot's schedule and total capacity, recomputing
// the remaining counter from the live booked count inside one transaction.
// Returns store.ErrCapacityTooLow if newTotal is below the booked count.
func (s *Store) UpdateSlotCapacity(ctx context.Context, slotID string, day, timeOfDay string, newTotal int) (*domain.Slot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	row := tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ?`, slotID)
	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var booked int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE slot_id = ?`, slotID).Scan(&booked); err != nil {
		return nil, err
	}

	if newTotal < booked {
		return nil, store.ErrCapacityTooLow.WithMessage(
			fmt.Sprintf("capacity %d is below the %d spots already booked", newTotal, booked))
	}

	slot.Day = day
	slot.Time = timeOfDay
	slot.TotalSpots = newTotal
	slot.RemainingSpots = newTotal - booked
	slot.UpdatedAt = time.Now()

	if _, err := tx.ExecContext(ctx, `
		UPDATE slots SET day = ?, time = ?, total_spots = ?, remaining_spots = ?, updated_at = ?
		WHERE id = ?`,
		slot.Day, slot.Time, slot.TotalSpots, slot.RemainingSpots,
		formatTime(slot.UpdatedAt), slot.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return slot, nil
}

// DeleteSlot removes a slot, but only if it has no bookings.
// Returns store.ErrHasBookings if any booking references the slot,
// store.ErrNotFound if the slot does not exist.
func (s *Store) DeleteSlot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var booked int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE slot_id = ?`, id).Scan(&booked); err != nil {
		return err
	}
	if booked > 0 {
		return store.ErrHasBookings
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

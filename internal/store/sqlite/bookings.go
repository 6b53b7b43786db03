package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/store"
)

const bookingColumns = `id, user_id, slot_id, confirmation_code, created_at`

func scanBooking(scanner interface{ Scan(dest ...any) error }) (*domain.Booking, error) {
	var b domain.Booking

	var createdAt string

	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.SlotID,
		&b.ConfirmationCode,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBooking atomically claims one spot in a slot and records the booking.
//
// The guarded decrement only fires while spots remain, so concurrent writers
// past capacity see zero rows affected rather than a negative counter. The
// booking insert and the decrement commit or roll back together, which keeps
// remaining_spots equal to total_spots minus the booking rows at all times.
//
// Returns store.ErrNotFound if the slot does not exist, store.ErrSlotFull if
// it has no remaining spots, and store.ErrAlreadyBooked if the user already
// holds a booking for it.
func (s *Store) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx, `
		UPDATE slots SET remaining_spots = remaining_spots - 1, updated_at = ?
		WHERE id = ? AND remaining_spots > 0`,
		formatTime(booking.CreatedAt), booking.SlotID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the slot is gone or it's full; check which.
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM slots WHERE id = ?`, booking.SlotID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound.WithMessage("slot not found")
		}
		if err != nil {
			return err
		}
		return store.ErrSlotFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, user_id, slot_id, confirmation_code, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		booking.ID,
		booking.UserID,
		booking.SlotID,
		booking.ConfirmationCode,
		formatTime(booking.CreatedAt),
	)
	if err != nil {
		// Rolling back restores the decremented counter.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: bookings.user_id") {
			return store.ErrAlreadyBooked
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by ID.
// Returns store.ErrNotFound if the booking does not exist.
func (s *Store) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListUserBookings returns a user's bookings joined with slot schedules,
// ordered by slot day and time.
func (s *Store) ListUserBookings(ctx context.Context, userID string) ([]*domain.BookingDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.slot_id, b.confirmation_code, b.created_at, s.day, s.time
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		WHERE b.user_id = ?
		ORDER BY s.day ASC, s.time ASC, b.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*domain.BookingDetail
	for rows.Next() {
		var d domain.BookingDetail
		var createdAt string
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.SlotID, &d.ConfirmationCode, &createdAt,
			&d.Day, &d.Time,
		); err != nil {
			return nil, err
		}
		d.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListSlotRoster returns the bookings for a slot joined with user identities,
// ordered by booking time. Returns store.ErrNotFound if the slot does not exist.
func (s *Store) ListSlotRoster(ctx context.Context, slotID string) ([]*domain.RosterEntry, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM slots WHERE id = ?`, slotID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("slot not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, u.username, u.email, b.created_at
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.slot_id = ?
		ORDER BY b.created_at ASC, b.id ASC`, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []*domain.RosterEntry
	for rows.Next() {
		var e domain.RosterEntry
		var bookedAt string
		if err := rows.Scan(&e.BookingID, &e.UserID, &e.Username, &e.Email, &bookedAt); err != nil {
			return nil, err
		}
		e.BookedAt, err = parseTime(bookedAt)
		if err != nil {
			return nil, err
		}
		roster = append(roster, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roster, nil
}

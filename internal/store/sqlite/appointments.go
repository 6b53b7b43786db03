package sqlite

import (
	"context"

	"github.com/corestudio/studio-server/internal/domain"
)

const appointmentColumns = `id, user_id, name, date, time, service_type, created_at`

func scanAppointment(scanner interface{ Scan(dest ...any) error }) (*domain.Appointment, error) {
	var a domain.Appointment

	var createdAt string

	err := scanner.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Date,
		&a.Time,
		&a.ServiceType,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAppointment inserts a new appointment request.
func (s *Store) CreateAppointment(ctx context.Context, appt *domain.Appointment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO appointments (id, user_id, name, date, time, service_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		appt.ID,
		appt.UserID,
		appt.Name,
		appt.Date,
		appt.Time,
		appt.ServiceType,
		formatTime(appt.CreatedAt),
	)
	return err
}

// ListUserAppointments returns a user's appointments ordered by date and time.
func (s *Store) ListUserAppointments(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE user_id = ? ORDER BY date ASC, time ASC, id ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appts, nil
}

// ListAppointments returns every appointment, for the admin view.
func (s *Store) ListAppointments(ctx context.Context) ([]*domain.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments ORDER BY date ASC, time ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appts, nil
}

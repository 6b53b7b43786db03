package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/id"
	"github.com/corestudio/studio-server/internal/store"
	"github.com/corestudio/studio-server/internal/validation"
)

// AppointmentService handles free-form appointment requests.
type AppointmentService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAppointmentService creates a new appointment service.
func NewAppointmentService(store store.Store, logger *slog.Logger) *AppointmentService {
	return &AppointmentService{store: store, logger: logger, validator: validation.New()}
}

// CreateAppointmentRequest contains the appointment details.
type CreateAppointmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Date        string `json:"date" validate:"required,max=50"`
	Time        string `json:"time" validate:"required,max=50"`
	ServiceType string `json:"service_type" validate:"required,min=2,max=64"`
}

// CreateAppointment records a private appointment request for the user.
// Appointments don't consume slot capacity.
func (s *AppointmentService) CreateAppointment(ctx context.Context, userID string, req CreateAppointmentRequest) (*domain.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	apptID, err := id.Generate("appt")
	if err != nil {
		return nil, fmt.Errorf("generate appointment ID: %w", err)
	}

	appt := &domain.Appointment{
		ID:          apptID,
		UserID:      userID,
		Name:        req.Name,
		Date:        req.Date,
		Time:        req.Time,
		ServiceType: req.ServiceType,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Appointment requested",
			"appointment_id", apptID,
			"user_id", userID,
			"date", appt.Date,
		)
	}

	return appt, nil
}

// ListUserAppointments returns the calling user's appointment requests.
func (s *AppointmentService) ListUserAppointments(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	appts, err := s.store.ListUserAppointments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// ListAllAppointments returns every appointment, for admins.
func (s *AppointmentService) ListAllAppointments(ctx context.Context) ([]*domain.Appointment, error) {
	appts, err := s.store.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

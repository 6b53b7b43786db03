package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/service"
)

func (s *Server) registerAppointmentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createAppointment",
		Method:      http.MethodPost,
		Path:        "/api/v1/appointments",
		Summary:     "Request appointment",
		Description: "Records a private appointment request for the authenticated user",
		Tags:        []string{"Appointments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAppointment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyAppointments",
		Method:      http.MethodGet,
		Path:        "/api/v1/appointments",
		Summary:     "List my appointments",
		Description: "Returns the authenticated user's appointment requests",
		Tags:        []string{"Appointments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyAppointments)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAllAppointments",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/appointments",
		Summary:     "List all appointments",
		Description: "Returns every appointment request across users. Admin only.",
		Tags:        []string{"Appointments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAllAppointments)
}

// === DTOs ===

// AppointmentRequest is the request body for an appointment.
type AppointmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128" doc:"Contact name for the appointment"`
	Date        string `json:"date" validate:"required,max=50" doc:"Requested date"`
	Time        string `json:"time" validate:"required,max=50" doc:"Requested time"`
	ServiceType string `json:"service_type" validate:"required,min=2,max=64" doc:"Requested service"`
}

// AppointmentInput wraps the appointment request for Huma.
type AppointmentInput struct {
	Authorization string `header:"Authorization"`
	Body          AppointmentRequest
}

// ListAppointmentsInput carries the auth header for appointment listings.
type ListAppointmentsInput struct {
	Authorization string `header:"Authorization"`
}

// AppointmentResponse contains appointment information in API responses.
type AppointmentResponse struct {
	ID          string    `json:"id" doc:"Appointment ID"`
	UserID      string    `json:"user_id" doc:"Owning user ID"`
	Name        string    `json:"name" doc:"Contact name"`
	Date        string    `json:"date" doc:"Requested date (YYYY-MM-DD)"`
	Time        string    `json:"time" doc:"Requested time (HH:MM)"`
	ServiceType string    `json:"service_type" doc:"Requested service"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
}

// AppointmentOutput wraps a single appointment response for Huma.
type AppointmentOutput struct {
	Body AppointmentResponse
}

// ListAppointmentsResponse contains an appointment listing.
type ListAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments" doc:"Appointment requests"`
}

// ListAppointmentsOutput wraps the appointment listing for Huma.
type ListAppointmentsOutput struct {
	Body ListAppointmentsResponse
}

// === Handlers ===

func (s *Server) handleCreateAppointment(ctx context.Context, input *AppointmentInput) (*AppointmentOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	appt, err := s.services.Appointment.CreateAppointment(ctx, user.ID, service.CreateAppointmentRequest{
		Name:        input.Body.Name,
		Date:        input.Body.Date,
		Time:        input.Body.Time,
		ServiceType: input.Body.ServiceType,
	})
	if err != nil {
		return nil, err
	}

	return &AppointmentOutput{Body: mapAppointmentResponse(appt)}, nil
}

func (s *Server) handleListMyAppointments(ctx context.Context, input *ListAppointmentsInput) (*ListAppointmentsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	appts, err := s.services.Appointment.ListUserAppointments(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &ListAppointmentsOutput{Body: ListAppointmentsResponse{Appointments: mapAppointmentList(appts)}}, nil
}

func (s *Server) handleListAllAppointments(ctx context.Context, input *ListAppointmentsInput) (*ListAppointmentsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	appts, err := s.services.Appointment.ListAllAppointments(ctx)
	if err != nil {
		return nil, err
	}

	return &ListAppointmentsOutput{Body: ListAppointmentsResponse{Appointments: mapAppointmentList(appts)}}, nil
}

// === Helpers ===

func mapAppointmentResponse(appt *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          appt.ID,
		UserID:      appt.UserID,
		Name:        appt.Name,
		Date:        appt.Date,
		Time:        appt.Time,
		ServiceType: appt.ServiceType,
		CreatedAt:   appt.CreatedAt,
	}
}

func mapAppointmentList(appts []*domain.Appointment) []AppointmentResponse {
	resp := make([]AppointmentResponse, len(appts))
	for i, a := range appts {
		resp[i] = mapAppointmentResponse(a)
	}
	return resp
}

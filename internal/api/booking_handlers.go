package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corestudio/studio-server/internal/service"
)

func (s *Server) registerBookingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createBooking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings",
		Summary:     "Book a slot",
		Description: "Reserves one spot in a time slot for the authenticated user. Each user can hold at most one booking per slot.",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyBookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings",
		Summary:     "List my bookings",
		Description: "Returns the authenticated user's bookings with their slot schedules",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyBookings)
}

// === DTOs ===

// BookingRequest is the request body for booking a slot.
type BookingRequest struct {
	SlotID string `json:"slot_id" validate:"required" doc:"Slot to book"`
}

// BookingInput wraps the booking request for Huma.
type BookingInput struct {
	Authorization string `header:"Authorization"`
	Body          BookingRequest
}

// ListBookingsInput carries the auth header for the booking listing.
type ListBookingsInput struct {
	Authorization string `header:"Authorization"`
}

// BookingResponse contains booking information in API responses.
type BookingResponse struct {
	ID               string    `json:"id" doc:"Booking ID"`
	SlotID           string    `json:"slot_id" doc:"Booked slot ID"`
	ConfirmationCode string    `json:"confirmation_code" doc:"Booking confirmation code"`
	Day              string    `json:"day,omitempty" doc:"Slot date (YYYY-MM-DD)"`
	Time             string    `json:"time,omitempty" doc:"Slot start time (HH:MM)"`
	CreatedAt        time.Time `json:"created_at" doc:"When the booking was made"`
}

// BookingOutput wraps a single booking response for Huma.
type BookingOutput struct {
	Body BookingResponse
}

// ListBookingsResponse contains the user's bookings.
type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings" doc:"Bookings held by the user"`
}

// ListBookingsOutput wraps the booking listing for Huma.
type ListBookingsOutput struct {
	Body ListBookingsResponse
}

// === Handlers ===

func (s *Server) handleCreateBooking(ctx context.Context, input *BookingInput) (*BookingOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	booking, err := s.services.Booking.Book(ctx, user, service.BookRequest{
		SlotID: input.Body.SlotID,
	})
	if err != nil {
		return nil, err
	}

	return &BookingOutput{
		Body: BookingResponse{
			ID:               booking.ID,
			SlotID:           booking.SlotID,
			ConfirmationCode: booking.ConfirmationCode,
			CreatedAt:        booking.CreatedAt,
		},
	}, nil
}

func (s *Server) handleListMyBookings(ctx context.Context, input *ListBookingsInput) (*ListBookingsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	bookings, err := s.services.Booking.ListUserBookings(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = BookingResponse{
			ID:               b.ID,
			SlotID:           b.SlotID,
			ConfirmationCode: b.ConfirmationCode,
			Day:              b.Day,
			Time:             b.Time,
			CreatedAt:        b.CreatedAt,
		}
	}

	return &ListBookingsOutput{Body: ListBookingsResponse{Bookings: resp}}, nil
}

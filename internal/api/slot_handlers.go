package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corestudio/studio-server/internal/domain"
	domainerrors "github.com/corestudio/studio-server/internal/errors"
	"github.com/corestudio/studio-server/internal/service"
)

func (s *Server) registerSlotRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSlots",
		Method:      http.MethodGet,
		Path:        "/api/v1/slots",
		Summary:     "List time slots",
		Description: "Returns bookable time slots with their remaining capacity. Admins can pass ?all=true to include full slots.",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSlots)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSlot",
		Method:      http.MethodGet,
		Path:        "/api/v1/slots/{id}",
		Summary:     "Get time slot",
		Description: "Returns a single time slot by ID",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "createSlot",
		Method:      http.MethodPost,
		Path:        "/api/v1/slots",
		Summary:     "Create time slot",
		Description: "Publishes a new bookable time slot. Admin only.",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSlot",
		Method:      http.MethodPatch,
		Path:        "/api/v1/slots/{id}",
		Summary:     "Update time slot",
		Description: "Changes a slot's schedule or capacity. The remaining counter is recomputed against existing bookings. Admin only.",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSlot",
		Method:      http.MethodDelete,
		Path:        "/api/v1/slots/{id}",
		Summary:     "Delete time slot",
		Description: "Removes a slot. Fails if the slot has active bookings. Admin only.",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSlotRoster",
		Method:      http.MethodGet,
		Path:        "/api/v1/slots/{id}/bookings",
		Summary:     "Get slot roster",
		Description: "Returns who booked a slot. Admin only.",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSlotRoster)
}

// === DTOs ===

// SlotRequest is the request body for creating a slot. Day and time are
// free-form labels ("2026-09-14", "Mon", "9:00").
type SlotRequest struct {
	Day        string `json:"day" validate:"required,max=50" doc:"Slot day"`
	Time       string `json:"time" validate:"required,max=50" doc:"Slot start time"`
	TotalSpots int    `json:"total_spots" validate:"required,gt=0" doc:"Total bookable spots"`
}

// SlotUpdateRequest is the request body for a partial slot edit. Omitted
// fields keep their stored values.
type SlotUpdateRequest struct {
	Day        *string `json:"day,omitempty" validate:"omitempty,min=1,max=50" doc:"Slot day"`
	Time       *string `json:"time,omitempty" validate:"omitempty,min=1,max=50" doc:"Slot start time"`
	TotalSpots *int    `json:"total_spots,omitempty" validate:"omitempty,gt=0" doc:"Total bookable spots"`
}

// CreateSlotInput wraps the slot creation request for Huma.
type CreateSlotInput struct {
	Authorization string `header:"Authorization"`
	Body          SlotRequest
}

// UpdateSlotInput wraps the slot update request for Huma.
type UpdateSlotInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Slot ID"`
	Body          SlotUpdateRequest
}

// GetSlotInput identifies a slot to fetch.
type GetSlotInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Slot ID"`
}

// ListSlotsInput carries the auth header and filters for the slot listing.
type ListSlotsInput struct {
	Authorization string `header:"Authorization"`
	All           bool   `query:"all" doc:"Include full slots (admin only)"`
}

// SlotResponse contains slot information in API responses.
type SlotResponse struct {
	ID             string    `json:"id" doc:"Slot ID"`
	Day            string    `json:"day" doc:"Slot day"`
	Time           string    `json:"time" doc:"Slot start time"`
	TotalSpots     int       `json:"total_spots" doc:"Total bookable spots"`
	RemainingSpots int       `json:"remaining_spots" doc:"Spots still available"`
	Available      bool      `json:"available" doc:"Whether the slot can still be booked"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// SlotOutput wraps a single slot response for Huma.
type SlotOutput struct {
	Body SlotResponse
}

// ListSlotsResponse contains the slot listing.
type ListSlotsResponse struct {
	Slots []SlotResponse `json:"slots" doc:"Published time slots"`
}

// ListSlotsOutput wraps the slot listing for Huma.
type ListSlotsOutput struct {
	Body ListSlotsResponse
}

// RosterEntryResponse describes one booking in a slot roster.
type RosterEntryResponse struct {
	BookingID string    `json:"booking_id" doc:"Booking ID"`
	UserID    string    `json:"user_id" doc:"Booking user ID"`
	Username  string    `json:"username" doc:"Booking username"`
	Email     string    `json:"email" doc:"Booking user email"`
	BookedAt  time.Time `json:"booked_at" doc:"When the booking was made"`
}

// RosterResponse contains the roster for a slot.
type RosterResponse struct {
	SlotID  string                `json:"slot_id" doc:"Slot ID"`
	Entries []RosterEntryResponse `json:"entries" doc:"Bookings for this slot"`
}

// RosterOutput wraps the roster response for Huma.
type RosterOutput struct {
	Body RosterResponse
}

// === Handlers ===

func (s *Server) handleListSlots(ctx context.Context, input *ListSlotsInput) (*ListSlotsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// Users browse what they can still book; admins can ask for the
	// full schedule including exhausted slots.
	var slots []*domain.Slot
	if input.All {
		if !user.IsAdmin() {
			return nil, domainerrors.Forbidden("Admin access required")
		}
		slots, err = s.services.Slot.ListSlots(ctx)
	} else {
		slots, err = s.services.Slot.ListAvailableSlots(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		resp[i] = mapSlotResponse(slot)
	}

	return &ListSlotsOutput{Body: ListSlotsResponse{Slots: resp}}, nil
}

func (s *Server) handleGetSlot(ctx context.Context, input *GetSlotInput) (*SlotOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	slot, err := s.services.Slot.GetSlot(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &SlotOutput{Body: mapSlotResponse(slot)}, nil
}

func (s *Server) handleCreateSlot(ctx context.Context, input *CreateSlotInput) (*SlotOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	slot, err := s.services.Slot.CreateSlot(ctx, admin.ID, service.CreateSlotRequest{
		Day:        input.Body.Day,
		Time:       input.Body.Time,
		TotalSpots: input.Body.TotalSpots,
	})
	if err != nil {
		return nil, err
	}

	return &SlotOutput{Body: mapSlotResponse(slot)}, nil
}

func (s *Server) handleUpdateSlot(ctx context.Context, input *UpdateSlotInput) (*SlotOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	slot, err := s.services.Slot.UpdateSlot(ctx, input.ID, service.UpdateSlotRequest{
		Day:        input.Body.Day,
		Time:       input.Body.Time,
		TotalSpots: input.Body.TotalSpots,
	})
	if err != nil {
		return nil, err
	}

	return &SlotOutput{Body: mapSlotResponse(slot)}, nil
}

func (s *Server) handleDeleteSlot(ctx context.Context, input *GetSlotInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Slot.DeleteSlot(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Slot deleted"}}, nil
}

func (s *Server) handleGetSlotRoster(ctx context.Context, input *GetSlotInput) (*RosterOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	entries, err := s.services.Booking.ListSlotRoster(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]RosterEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = RosterEntryResponse{
			BookingID: e.BookingID,
			UserID:    e.UserID,
			Username:  e.Username,
			Email:     e.Email,
			BookedAt:  e.BookedAt,
		}
	}

	return &RosterOutput{Body: RosterResponse{SlotID: input.ID, Entries: resp}}, nil
}

// === Helpers ===

func mapSlotResponse(slot *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:             slot.ID,
		Day:            slot.Day,
		Time:           slot.Time,
		TotalSpots:     slot.TotalSpots,
		RemainingSpots: slot.RemainingSpots,
		Available:      slot.Available(),
		CreatedAt:      slot.CreatedAt,
		UpdatedAt:      slot.UpdatedAt,
	}
}

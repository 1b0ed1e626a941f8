package dto

import (
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
)

type EventResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Category         models.Category `json:"category"`
	Date             time.Time       `json:"date"`
	Venue            string          `json:"venue"`
	Price            float64         `json:"price"`
	Image            string          `json:"image"`
	Capacity         int             `json:"capacity"`
	AvailableTickets int             `json:"availableTickets"`
	Tags             []string        `json:"tags"`
	CreatedBy        uuid.UUID       `json:"createdBy"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type BookingResponse struct {
	ID          uuid.UUID            `json:"id"`
	EventID     uuid.UUID            `json:"eventId"`
	UserID      uuid.UUID            `json:"userId"`
	Tickets     int                  `json:"tickets"`
	TotalPrice  float64              `json:"totalPrice"`
	Status      models.BookingStatus `json:"status"`
	BookingDate time.Time            `json:"bookingDate"`
	CancelledAt *time.Time           `json:"cancelledAt,omitempty"`
	Event       *EventResponse       `json:"event,omitempty"`
}

type CancelBookingResponse struct {
	Message string          `json:"message"`
	Booking BookingResponse `json:"booking"`
}

type DeleteEventResponse struct {
	Message         string `json:"message"`
	DeletedBookings int    `json:"deletedBookings"`
}

// EventStatsResponse feeds the admin dashboard.
type EventStatsResponse struct {
	TotalEvents           int            `json:"totalEvents"`
	UpcomingEvents        int            `json:"upcomingEvents"`
	TotalCapacity         int            `json:"totalCapacity"`
	TotalAvailableTickets int            `json:"totalAvailableTickets"`
	TicketsSold           int            `json:"ticketsSold"`
	ByCategory            map[string]int `json:"byCategory"`
}

type EventInventoryResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	AvailableTickets int       `json:"availableTickets"`
	ActiveBookings   int64     `json:"activeBookings"`
	Consistent       bool      `json:"consistent"`
}

type ActivityResponse struct {
	ID        uint       `json:"id"`
	Kind      string     `json:"kind"`
	EventID   *uuid.UUID `json:"eventId,omitempty"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Payload   string     `json:"payload"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UserResponse struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type PassVerificationResponse struct {
	Valid   bool            `json:"valid"`
	Booking BookingResponse `json:"booking"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope every failed request is rendered with.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func ToEventResponse(e *models.Event) EventResponse {
	tags := []string(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return EventResponse{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Category:         e.Category,
		Date:             e.Date,
		Venue:            e.Venue,
		Price:            e.Price,
		Image:            e.Image,
		Capacity:         e.Capacity,
		AvailableTickets: e.AvailableTickets,
		Tags:             tags,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToEventResponses(events []models.Event) []EventResponse {
	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = ToEventResponse(&events[i])
	}
	return resp
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		UserID:      b.UserID,
		Tickets:     b.Tickets,
		TotalPrice:  b.TotalPrice,
		Status:      b.Status,
		BookingDate: b.BookingDate,
		CancelledAt: b.CancelledAt,
	}
	if b.Event != nil {
		ev := ToEventResponse(b.Event)
		resp.Event = &ev
	}
	return resp
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToActivityResponses(logs []models.ActivityLog) []ActivityResponse {
	resp := make([]ActivityResponse, len(logs))
	for i, l := range logs {
		resp[i] = ActivityResponse{
			ID:        l.ID,
			Kind:      l.Kind,
			EventID:   l.EventID,
			BookingID: l.BookingID,
			UserID:    l.UserID,
			Payload:   l.Payload,
			CreatedAt: l.CreatedAt,
		}
	}
	return resp
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

package dto

import (
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
)

// Routing keys published on the ticketing exchange.
const (
	RoutingEventCreated     = "event.created"
	RoutingEventUpdated     = "event.updated"
	RoutingEventDeleted     = "event.deleted"
	RoutingBookingCreated   = "booking.created"
	RoutingBookingCancelled = "booking.cancelled"
)

type BookingMessage struct {
	BookingID  uuid.UUID            `json:"bookingId"`
	EventID    uuid.UUID            `json:"eventId"`
	UserID     uuid.UUID            `json:"userId"`
	Status     models.BookingStatus `json:"status"`
	TotalPrice float64              `json:"totalPrice"`
	OccurredAt time.Time            `json:"occurredAt"`
}

type BookingRef struct {
	BookingID uuid.UUID            `json:"bookingId"`
	UserID    uuid.UUID            `json:"userId"`
	Status    models.BookingStatus `json:"status"`
}

type EventMessage struct {
	EventID          uuid.UUID    `json:"eventId"`
	Name             string       `json:"name"`
	Capacity         int          `json:"capacity"`
	AvailableTickets int          `json:"availableTickets"`
	RemovedBookings  []BookingRef `json:"removedBookings,omitempty"`
	OccurredAt       time.Time    `json:"occurredAt"`
}

func NewBookingMessage(b *models.Booking, at time.Time) BookingMessage {
	return BookingMessage{
		BookingID:  b.ID,
		EventID:    b.EventID,
		UserID:     b.UserID,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
		OccurredAt: at,
	}
}

func NewEventMessage(e *models.Event, removed []models.Booking, at time.Time) EventMessage {
	msg := EventMessage{
		EventID:          e.ID,
		Name:             e.Name,
		Capacity:         e.Capacity,
		AvailableTickets: e.AvailableTickets,
		OccurredAt:       at,
	}
	for _, b := range removed {
		msg.RemovedBookings = append(msg.RemovedBookings, BookingRef{
			BookingID: b.ID,
			UserID:    b.UserID,
			Status:    b.Status,
		})
	}
	return msg
}

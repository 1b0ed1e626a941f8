package dto

import "time"

type CreateEventRequest struct {
	Name             string    `json:"name" validate:"required,max=200"`
	Description      string    `json:"description" validate:"required"`
	Category         string    `json:"category" validate:"required,oneof=Music Sports Arts Business Technology Other"`
	Date             time.Time `json:"date" validate:"required"`
	Venue            string    `json:"venue" validate:"required"`
	Price            float64   `json:"price" validate:"gte=0"`
	Image            string    `json:"image" validate:"omitempty,max=2048"`
	Capacity         int       `json:"capacity" validate:"required,gte=1"`
	AvailableTickets *int      `json:"availableTickets" validate:"omitempty,gte=0"`
	Tags             []string  `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// UpdateEventRequest is a partial update: nil fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	Category    *string    `json:"category" validate:"omitempty,oneof=Music Sports Arts Business Technology Other"`
	Date        *time.Time `json:"date"`
	Venue       *string    `json:"venue" validate:"omitempty,min=1"`
	Price       *float64   `json:"price" validate:"omitempty,gte=0"`
	Image       *string    `json:"image" validate:"omitempty,max=2048"`
	Capacity    *int       `json:"capacity" validate:"omitempty,gte=1"`
	Tags        []string   `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// CreateBookingRequest carries only the event; quantity is always one.
type CreateBookingRequest struct {
	EventID string `json:"eventId" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyPassRequest struct {
	Payload string `json:"payload" validate:"required"`
}

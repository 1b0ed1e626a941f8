package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only record of a domain message. Rows have no
// foreign keys so they outlive the events and bookings they describe.
type ActivityLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Kind      string     `gorm:"type:varchar(40);not null;index" json:"kind"`
	EventID   *uuid.UUID `gorm:"type:uuid;index" json:"event_id,omitempty"`
	BookingID *uuid.UUID `gorm:"type:uuid" json:"booking_id,omitempty"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Payload   string     `gorm:"type:text" json:"payload"`
	CreatedAt time.Time  `json:"created_at"`
}

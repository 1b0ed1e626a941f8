package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether a booking in this status still holds a ticket.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo reports whether the booking lifecycle allows moving
// from s to next. Cancelled is terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Tickets     int           `gorm:"not null;default:1;check:tickets >= 1" json:"tickets"`
	TotalPrice  float64       `gorm:"not null" json:"total_price"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	BookingDate time.Time     `gorm:"not null;index" json:"booking_date"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DefaultImage is stored when an event is created without an image.
const DefaultImage = "default-event.jpg"

type Category string

const (
	CategoryMusic      Category = "Music"
	CategorySports     Category = "Sports"
	CategoryArts       Category = "Arts"
	CategoryBusiness   Category = "Business"
	CategoryTechnology Category = "Technology"
	CategoryOther      Category = "Other"
)

var Categories = []Category{
	CategoryMusic,
	CategorySports,
	CategoryArts,
	CategoryBusiness,
	CategoryTechnology,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Event struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Description      string         `gorm:"type:text;not null" json:"description"`
	Category         Category       `gorm:"type:varchar(20);not null;index" json:"category"`
	Date             time.Time      `gorm:"not null;index" json:"date"`
	Venue            string         `gorm:"not null" json:"venue"`
	Price            float64        `gorm:"not null;check:price >= 0" json:"price"`
	Image            string         `gorm:"not null;default:'default-event.jpg'" json:"image"`
	Capacity         int            `gorm:"not null;check:capacity >= 1" json:"capacity"`
	AvailableTickets int            `gorm:"not null;check:chk_events_available_tickets,available_tickets >= 0 AND available_tickets <= capacity" json:"available_tickets"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Booked is the number of tickets currently held by active bookings.
func (e *Event) Booked() int {
	return e.Capacity - e.AvailableTickets
}

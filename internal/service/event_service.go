package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidEvent        = errors.New("invalid event")
	ErrCapacityBelowBooked = errors.New("capacity cannot be lower than the tickets already booked")
)

type EventService interface {
	CreateEvent(ctx context.Context, req dto.CreateEventRequest, createdBy uuid.UUID) (*models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListEvents(ctx context.Context, filter repository.EventFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req dto.UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) (int, error)
	Stats(ctx context.Context) (*dto.EventStatsResponse, error)
	InventoryStatus(ctx context.Context, id uuid.UUID) (*dto.EventInventoryResponse, error)
	ListActivity(ctx context.Context, id uuid.UUID) ([]models.ActivityLog, error)
}

type eventService struct {
	eventRepo    repository.EventRepository
	bookingRepo  repository.BookingRepository
	activityRepo repository.ActivityRepository
	publisher    Publisher
	now          func() time.Time
}

func NewEventService(
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	activityRepo repository.ActivityRepository,
	publisher Publisher,
) EventService {
	return &eventService{
		eventRepo:    eventRepo,
		bookingRepo:  bookingRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(format, args...))
}

func (s *eventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, createdBy uuid.UUID) (*models.Event, error) {
	category := models.Category(req.Category)
	switch {
	case strings.TrimSpace(req.Name) == "":
		return nil, invalid("name is required")
	case !category.Valid():
		return nil, invalid("unknown category %q", req.Category)
	case req.Capacity < 1:
		return nil, invalid("capacity must be at least 1")
	case req.Price < 0:
		return nil, invalid("price must not be negative")
	}

	available := req.Capacity
	if req.AvailableTickets != nil {
		if *req.AvailableTickets < 0 || *req.AvailableTickets > req.Capacity {
			return nil, invalid("availableTickets must be between 0 and capacity")
		}
		available = *req.AvailableTickets
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = models.DefaultImage
	}

	event := &models.Event{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		Category:         category,
		Date:             req.Date,
		Venue:            req.Venue,
		Price:            req.Price,
		Image:            image,
		Capacity:         req.Capacity,
		AvailableTickets: available,
		Tags:             req.Tags,
		CreatedBy:        createdBy,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	publish(s.publisher, dto.RoutingEventCreated, dto.NewEventMessage(event, nil, s.now()))
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter repository.EventFilter) ([]models.Event, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalid("unknown category %q", filter.Category)
	}
	return s.eventRepo.FindAll(ctx, filter)
}

func (s *eventService) UpdateEvent(ctx context.Context, id uuid.UUID, req dto.UpdateEventRequest) (*models.Event, error) {
	var result *models.Event

	err := s.eventRepo.Transaction(ctx, func(tx *gorm.DB) error {
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("load event: %w", err)
		}

		if err := applyUpdate(event, req); err != nil {
			return err
		}

		if err := s.eventRepo.Save(ctx, tx, event); err != nil {
			return fmt.Errorf("save event: %w", err)
		}
		result = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(s.publisher, dto.RoutingEventUpdated, dto.NewEventMessage(result, nil, s.now()))
	return result, nil
}

// applyUpdate copies the set fields of req onto event. A capacity change
// shifts availableTickets by the same amount so booked tickets are kept.
func applyUpdate(event *models.Event, req dto.UpdateEventRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return invalid("name is required")
		}
		event.Name = name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		if !category.Valid() {
			return invalid("unknown category %q", *req.Category)
		}
		event.Category = category
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return invalid("price must not be negative")
		}
		event.Price = *req.Price
	}
	if req.Image != nil {
		event.Image = strings.TrimSpace(*req.Image)
		if event.Image == "" {
			event.Image = models.DefaultImage
		}
	}
	if req.Tags != nil {
		event.Tags = req.Tags
	}
	if req.Capacity != nil {
		capacity := *req.Capacity
		if capacity < 1 {
			return invalid("capacity must be at least 1")
		}
		booked := event.Booked()
		if capacity < booked {
			return ErrCapacityBelowBooked
		}
		event.Capacity = capacity
		event.AvailableTickets = capacity - booked
	}
	return nil
}

// DeleteEvent removes the event together with every booking that
// references it. It returns how many bookings were removed.
func (s *eventService) DeleteEvent(ctx context.Context, id uuid.UUID) (int, error) {
	var (
		event   *models.Event
		removed []models.Booking
	)

	err := s.eventRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		event, err = s.eventRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("load event: %w", err)
		}

		removed, err = s.bookingRepo.DeleteByEventID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}

		n, err := s.eventRepo.Delete(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if n == 0 {
			return ErrEventNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[EventService] deleted event %s and %d bookings", id, len(removed))
	publish(s.publisher, dto.RoutingEventDeleted, dto.NewEventMessage(event, removed, s.now()))
	return len(removed), nil
}

func (s *eventService) Stats(ctx context.Context) (*dto.EventStatsResponse, error) {
	events, err := s.eventRepo.FindAll(ctx, repository.EventFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &dto.EventStatsResponse{ByCategory: make(map[string]int, len(models.Categories))}
	for _, c := range models.Categories {
		stats.ByCategory[string(c)] = 0
	}
	for _, e := range events {
		stats.TotalEvents++
		if e.Date.After(now) {
			stats.UpcomingEvents++
		}
		stats.TotalCapacity += e.Capacity
		stats.TotalAvailableTickets += e.AvailableTickets
		stats.ByCategory[string(e.Category)]++
	}
	stats.TicketsSold = stats.TotalCapacity - stats.TotalAvailableTickets
	return stats, nil
}

// InventoryStatus compares the stored ticket count against the active bookings.
func (s *eventService) InventoryStatus(ctx context.Context, id uuid.UUID) (*dto.EventInventoryResponse, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	active, err := s.bookingRepo.CountActive(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return &dto.EventInventoryResponse{
		ID:               event.ID,
		Name:             event.Name,
		Capacity:         event.Capacity,
		AvailableTickets: event.AvailableTickets,
		ActiveBookings:   active,
		Consistent:       int64(event.AvailableTickets) == int64(event.Capacity)-active,
	}, nil
}

func (s *eventService) ListActivity(ctx context.Context, id uuid.UUID) ([]models.ActivityLog, error) {
	return s.activityRepo.FindByEventID(ctx, id)
}

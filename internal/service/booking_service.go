package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInsufficientTickets = errors.New("not enough tickets available")
	ErrAlreadyBooked       = errors.New("user already has an active booking for this event")
	ErrForbidden           = errors.New("not authorized to act on this booking")
	ErrInvalidTransition   = errors.New("booking cannot move to the requested status")
)

// ticketsPerBooking is fixed: every booking holds exactly one ticket.
const ticketsPerBooking = 1

type BookingService interface {
	CreateBooking(ctx context.Context, eventID, userID uuid.UUID) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	ListEventBookings(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	eventRepo   repository.EventRepository
	publisher   Publisher
	now         func() time.Time
}

func NewBookingService(bookingRepo repository.BookingRepository, eventRepo repository.EventRepository, publisher Publisher) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, userID uuid.UUID) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. Lock the event row so concurrent bookings for it queue up
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("load event: %w", err)
		}

		// 2. Inventory
		if event.AvailableTickets < ticketsPerBooking {
			return ErrInsufficientTickets
		}

		// 3. One active booking per user and event
		_, err = s.bookingRepo.FindActiveByUserAndEvent(ctx, tx, userID, eventID)
		if err == nil {
			return ErrAlreadyBooked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check existing booking: %w", err)
		}

		// 4. Take the ticket; the WHERE clause refuses to go below zero
		taken, err := s.eventRepo.DecrementAvailable(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("decrement tickets: %w", err)
		}
		if !taken {
			return ErrInsufficientTickets
		}

		booking := &models.Booking{
			EventID:     eventID,
			UserID:      userID,
			Tickets:     ticketsPerBooking,
			TotalPrice:  event.Price * ticketsPerBooking,
			Status:      models.StatusConfirmed,
			BookingDate: s.now(),
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrAlreadyBooked
			}
			return fmt.Errorf("create booking: %w", err)
		}

		event.AvailableTickets -= ticketsPerBooking
		booking.Event = event
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BookingService] user %s booked event %s (%d left)", userID, eventID, result.Event.AvailableTickets)
	publish(s.publisher, dto.RoutingBookingCreated, dto.NewBookingMessage(result, s.now()))
	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if booking.UserID != userID {
			return ErrForbidden
		}
		if !booking.Status.CanTransitionTo(models.StatusCancelled) {
			return ErrInvalidTransition
		}

		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, booking.EventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("load event: %w", err)
		}

		moved, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, booking.Status, models.StatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !moved {
			return ErrInvalidTransition
		}

		restored, err := s.eventRepo.IncrementAvailable(ctx, tx, event.ID)
		if err != nil {
			return fmt.Errorf("restore tickets: %w", err)
		}
		if restored {
			event.AvailableTickets += booking.Tickets
		} else {
			log.Printf("[BookingService] event %s already at capacity while cancelling booking %s", event.ID, booking.ID)
		}

		now := s.now()
		booking.Status = models.StatusCancelled
		booking.CancelledAt = &now
		booking.Event = event
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BookingService] user %s cancelled booking %s", userID, bookingID)
	publish(s.publisher, dto.RoutingBookingCancelled, dto.NewBookingMessage(result, s.now()))
	return result, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	return s.bookingRepo.FindActiveByUser(ctx, userID)
}

func (s *bookingService) ListEventBookings(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.bookingRepo.FindByEventID(ctx, eventID, status)
}

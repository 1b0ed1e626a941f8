package repository

import (
	"context"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Transactor
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error)
	FindActiveByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*models.Booking, error)
	CountActive(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, from, to models.BookingStatus) (bool, error)
	DeleteByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]models.Booking, error)
}

type bookingRepository struct {
	transactor
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{transactor: transactor{db: db}, db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(r.db, tx).WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Event").First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindActiveByUser lists a user's non-cancelled bookings, newest first.
func (r *bookingRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ? AND status <> ?", userID, models.StatusCancelled).
		Order("booking_date DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByEventID(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("booking_date ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindActiveByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := conn(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND status <> ?", userID, eventID, models.StatusCancelled).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) CountActive(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int64, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("event_id = ? AND status <> ?", eventID, models.StatusCancelled).
		Count(&count).Error
	return count, err
}

// UpdateStatus moves a booking from one status to another. It returns
// false if the booking was no longer in the expected status.
func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, from, to models.BookingStatus) (bool, error) {
	updates := map[string]any{"status": to}
	if to == models.StatusCancelled {
		updates["cancelled_at"] = time.Now()
	}
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteByEventID removes every booking of an event regardless of status
// and returns the removed rows.
func (r *bookingRepository) DeleteByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]models.Booking, error) {
	var removed []models.Booking
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("event_id = ?", eventID).
		Delete(&removed).Error
	if err != nil {
		return nil, err
	}
	return removed, nil
}

package repository

import (
	"context"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventFilter struct {
	Category models.Category
}

type EventRepository interface {
	Transactor
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, tx *gorm.DB, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error)
	FindAll(ctx context.Context, filter EventFilter) ([]models.Event, error)
	DecrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	IncrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type eventRepository struct {
	transactor
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{transactor: transactor{db: db}, db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return conn(r.db, tx).WithContext(ctx).Save(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate acquires a row-level lock on the event within the given transaction.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	var events []models.Event
	q := r.db.WithContext(ctx)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if err := q.Order("date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DecrementAvailable takes one ticket only if one is left. It returns
// false when the event had no tickets (or does not exist).
func (r *eventRepository) DecrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND available_tickets > 0", id).
		Update("available_tickets", gorm.Expr("available_tickets - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementAvailable returns one ticket, never exceeding capacity.
func (r *eventRepository) IncrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND available_tickets < capacity", id).
		Update("available_tickets", gorm.Expr("available_tickets + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *eventRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

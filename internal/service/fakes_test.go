package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- In-memory store backing the event and booking repositories ---

// memStore serializes transactions with txMu and restores a snapshot
// when the transaction function fails, mirroring a database rollback.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	events   map[uuid.UUID]models.Event
	bookings map[uuid.UUID]models.Booking

	createBookingErr error
}

func newMemStore() *memStore {
	return &memStore{
		events:   map[uuid.UUID]models.Event{},
		bookings: map[uuid.UUID]models.Booking{},
	}
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	events := make(map[uuid.UUID]models.Event, len(s.events))
	for k, v := range s.events {
		events[k] = v
	}
	bookings := make(map[uuid.UUID]models.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.events, s.bookings = events, bookings
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) addEvent(e models.Event) *models.Event {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.mu.Lock()
	s.events[e.ID] = e
	s.mu.Unlock()
	return &e
}

func (s *memStore) event(id uuid.UUID) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

func (s *memStore) activeCount(eventID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.EventID == eventID && b.Status.Active() {
			n++
		}
	}
	return n
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

type fakeEventRepo struct{ *memStore }

func (r fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = *event
	return nil
}

func (r fakeEventRepo) Save(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = *event
	return nil
}

func (r fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r fakeEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
	return r.FindByID(ctx, id)
}

func (r fakeEventRepo) FindAll(ctx context.Context, filter repository.EventFilter) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if filter.Category == "" || e.Category == filter.Category {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r fakeEventRepo) DecrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.AvailableTickets <= 0 {
		return false, nil
	}
	e.AvailableTickets--
	r.events[id] = e
	return true, nil
}

func (r fakeEventRepo) IncrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.AvailableTickets >= e.Capacity {
		return false, nil
	}
	e.AvailableTickets++
	r.events[id] = e
	return true, nil
}

func (r fakeEventRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return 0, nil
	}
	delete(r.events, id)
	return 1, nil
}

type fakeBookingRepo struct{ *memStore }

func (r fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createBookingErr != nil {
		return r.createBookingErr
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	stored := *booking
	stored.Event = nil
	r.bookings[booking.ID] = stored
	return nil
}

func (r fakeBookingRepo) withEvent(b models.Booking) models.Booking {
	if e, ok := r.events[b.EventID]; ok {
		b.Event = &e
	}
	return b
}

func (r fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	b = r.withEvent(b)
	return &b, nil
}

func (r fakeBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r fakeBookingRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID && b.Status.Active() {
			out = append(out, r.withEvent(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (r fakeBookingRepo) FindByEventID(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.EventID == eventID && (status == nil || b.Status == *status) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.Before(out[j].BookingDate) })
	return out, nil
}

func (r fakeBookingRepo) FindActiveByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.UserID == userID && b.EventID == eventID && b.Status.Active() {
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeBookingRepo) CountActive(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int64, error) {
	return int64(r.activeCount(eventID)), nil
}

func (r fakeBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, from, to models.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	if to == models.StatusCancelled {
		now := time.Now()
		b.CancelledAt = &now
	}
	r.bookings[bookingID] = b
	return true, nil
}

func (r fakeBookingRepo) DeleteByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []models.Booking
	for id, b := range r.bookings {
		if b.EventID == eventID {
			removed = append(removed, b)
			delete(r.bookings, id)
		}
	}
	return removed, nil
}

// --- Activity repository ---

type fakeActivityRepo struct {
	findFn func(ctx context.Context, eventID uuid.UUID) ([]models.ActivityLog, error)
}

func (m *fakeActivityRepo) CreateBatch(ctx context.Context, logs []models.ActivityLog) error {
	return nil
}
func (m *fakeActivityRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]models.ActivityLog, error) {
	return m.findFn(ctx, eventID)
}

// --- User repository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

// --- Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// tickingClock returns a clock that advances one second per call so
// bookings made in sequence get distinct, ordered timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

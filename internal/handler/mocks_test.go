package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/middleware"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn     func(ctx context.Context, eventID, userID uuid.UUID) (*models.Booking, error)
	cancelFn     func(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error)
	listUserFn   func(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	listEventsFn func(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, eventID, userID uuid.UUID) (*models.Booking, error) {
	return m.createFn(ctx, eventID, userID)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error) {
	return m.cancelFn(ctx, bookingID, userID)
}
func (m *mockBookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	return m.listUserFn(ctx, userID)
}
func (m *mockBookingService) ListEventBookings(ctx context.Context, eventID uuid.UUID, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listEventsFn(ctx, eventID, status)
}

// --- Mock PassService ---

type mockPassService struct {
	generateFn func(ctx context.Context, bookingID, userID uuid.UUID) ([]byte, error)
	verifyFn   func(ctx context.Context, payload string) (*models.Booking, error)
}

func (m *mockPassService) Generate(ctx context.Context, bookingID, userID uuid.UUID) ([]byte, error) {
	return m.generateFn(ctx, bookingID, userID)
}
func (m *mockPassService) Verify(ctx context.Context, payload string) (*models.Booking, error) {
	return m.verifyFn(ctx, payload)
}
func (m *mockPassService) Payload(b *models.Booking) string { return "" }

// --- Mock EventService ---

type mockEventService struct {
	createFn   func(ctx context.Context, req dto.CreateEventRequest, createdBy uuid.UUID) (*models.Event, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*models.Event, error)
	listFn     func(ctx context.Context, filter repository.EventFilter) ([]models.Event, error)
	updateFn   func(ctx context.Context, id uuid.UUID, req dto.UpdateEventRequest) (*models.Event, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) (int, error)
	statsFn    func(ctx context.Context) (*dto.EventStatsResponse, error)
	statusFn   func(ctx context.Context, id uuid.UUID) (*dto.EventInventoryResponse, error)
	activityFn func(ctx context.Context, id uuid.UUID) ([]models.ActivityLog, error)
}

func (m *mockEventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, createdBy uuid.UUID) (*models.Event, error) {
	return m.createFn(ctx, req, createdBy)
}
func (m *mockEventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockEventService) ListEvents(ctx context.Context, filter repository.EventFilter) ([]models.Event, error) {
	return m.listFn(ctx, filter)
}
func (m *mockEventService) UpdateEvent(ctx context.Context, id uuid.UUID, req dto.UpdateEventRequest) (*models.Event, error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockEventService) DeleteEvent(ctx context.Context, id uuid.UUID) (int, error) {
	return m.deleteFn(ctx, id)
}
func (m *mockEventService) Stats(ctx context.Context) (*dto.EventStatsResponse, error) {
	return m.statsFn(ctx)
}
func (m *mockEventService) InventoryStatus(ctx context.Context, id uuid.UUID) (*dto.EventInventoryResponse, error) {
	return m.statusFn(ctx, id)
}
func (m *mockEventService) ListActivity(ctx context.Context, id uuid.UUID) ([]models.ActivityLog, error) {
	return m.activityFn(ctx, id)
}

// --- Mock AuthService ---

type mockAuthService struct {
	registerFn func(ctx context.Context, username, email, password string) (*models.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*models.User, string, error)
	meFn       func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	return m.registerFn(ctx, username, email, password)
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.loginFn(ctx, email, password)
}
func (m *mockAuthService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.meFn(ctx, id)
}
func (m *mockAuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	return nil
}

// --- Helpers ---

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler
	return e
}

// newRequestContext builds a context as the router would after Auth ran.
func newRequestContext(method, target string, body io.Reader, user *middleware.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := newEcho()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetIdentity(c, *user)
	}
	return c, rec
}

func userIdentity() *middleware.Identity {
	return &middleware.Identity{UserID: uuid.New(), Role: models.RoleUser}
}

func adminIdentity() *middleware.Identity {
	return &middleware.Identity{UserID: uuid.New(), Role: models.RoleAdmin}
}
